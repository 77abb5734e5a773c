package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/roach88/journey/internal/timeline"
)

// StdinPath is the input argument that reads the timeline from stdin.
const StdinPath = "-"

// LoadResult holds a decoded timeline file.
type LoadResult struct {
	Source  string            // Path as given, "-" for stdin
	Format  timeline.Format   // Decoder used
	Raw     []byte            // Bytes as read
	Records []timeline.Record // Decoded, not yet normalized
}

// LoadError represents an error that occurred while loading a timeline.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadTimeline reads and decodes a timeline from path, or from stdin when
// path is "-". The format follows the file extension; stdin is JSON.
func LoadTimeline(path string, stdin io.Reader) (*LoadResult, error) {
	var raw []byte
	var err error
	if path == StdinPath {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("timeline file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading timeline: %v", err)}
	}

	format := timeline.DetectFormat(path)
	records, err := timeline.Decode(raw, format)
	if err != nil {
		if timeline.IsMalformed(err) {
			return nil, &LoadError{Code: ErrCodeMalformed, Message: err.Error()}
		}
		return nil, &LoadError{Code: ErrCodeDecode, Message: err.Error()}
	}

	return &LoadResult{
		Source:  path,
		Format:  format,
		Raw:     raw,
		Records: records,
	}, nil
}

// failLoad reports a load error through the formatter as a command error.
func failLoad(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
