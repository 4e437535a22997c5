package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
)

// Output receives every exchange of the clients it was attached to with Dump.
type Output interface {
	Write(name string, contents string)
}

// FilesystemOutput writes each exchange to its own numbered file in a directory.
type FilesystemOutput struct {
	directory string
	idcounter *uint64
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	var idcounter uint64
	return FilesystemOutput{directory: dir, idcounter: &idcounter}, nil
}

func (o FilesystemOutput) Write(name string, contents string) {
	id := atomic.AddUint64(o.idcounter, 1)
	filename := filepath.Join(o.directory, fmt.Sprintf("%03d-%s.http", id, name))
	err := os.WriteFile(filename, []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "file", filename, "err", err)
	}
}
