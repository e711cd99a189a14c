package monitor

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ttylab/serialmon/logging"
)

// OutputFiles fans the captured tail of the rendered stream out to the files
// named on the command line. Every file is created up front so a bad path
// fails before the port is opened; the content is written once, when the
// session ends.
type OutputFiles struct {
	files   []*os.File
	history *History
	log     zerolog.Logger
}

// OpenOutputFiles creates every path for writing and sizes the shared
// history capture. It returns nil when paths is empty; OutputFiles methods
// tolerate a nil receiver so callers need not special-case that.
func OpenOutputFiles(paths []string, historyLimit int) (*OutputFiles, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	o := &OutputFiles{
		history: NewHistory(historyLimit),
		log:     logging.GetLogger("monitor.files"),
	}
	for _, path := range paths {
		f, err := os.Create(path)
		if err != nil {
			o.abort()
			return nil, fmt.Errorf("create output file %s: %w", path, err)
		}
		o.files = append(o.files, f)
	}
	return o, nil
}

// History returns the writer capturing the rendered stream for the files.
func (o *OutputFiles) History() *History {
	if o == nil {
		return nil
	}
	return o.history
}

// Close writes the captured tail to every file and closes them. Every file
// is attempted; the first failure is returned.
func (o *OutputFiles) Close() error {
	if o == nil {
		return nil
	}
	var firstErr error
	for _, f := range o.files {
		_, err := o.history.WriteTo(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			o.log.Error().Err(err).Str("file", f.Name()).Msg("output file failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("write %s: %w", f.Name(), err)
			}
			continue
		}
		o.log.Info().Str("file", f.Name()).Int("bytes", o.history.Len()).Msg("output file written")
	}
	return firstErr
}

// abort closes whatever was opened before a creation failure.
func (o *OutputFiles) abort() {
	for _, f := range o.files {
		f.Close()
	}
}
