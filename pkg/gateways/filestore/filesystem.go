package filestore

import (
	"os"
	"path/filepath"
)

type filesystemManagement interface {
	readRecordsFile(path string) ([]byte, error)
	writeRecordsFile(path string, data []byte) error
}

type fileManagement struct{}

func (fs *fileManagement) readRecordsFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.Clean(path))
}

func (fs *fileManagement) writeRecordsFile(path string, data []byte) error {
	return os.WriteFile(filepath.Clean(path), data, 0600)
}
