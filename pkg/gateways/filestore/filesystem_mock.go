package filestore

import "github.com/stretchr/testify/mock"

type fileManagementMock struct {
	mock.Mock
}

func (fm *fileManagementMock) readRecordsFile(path string) ([]byte, error) {
	args := fm.Called(path)
	return args.Get(0).([]byte), args.Error(1)
}

func (fm *fileManagementMock) writeRecordsFile(path string, data []byte) error {
	args := fm.Called(path, data)
	return args.Error(0)
}
