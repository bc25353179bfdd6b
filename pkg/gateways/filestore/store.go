package filestore

import (
	"context"
	"os"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Store keeps device records in a YAML file keyed by device name. The file is
// read on every call so edits made by hand are picked up.
type Store struct {
	path           string
	fileManagement filesystemManagement
	log            *logrus.Entry
}

func NewStore(path string, log *logrus.Entry) *Store {
	return &Store{path: path, fileManagement: new(fileManagement), log: log}
}

func (s *Store) GetDevice(ctx context.Context, name string) (entities.DeviceRecord, error) {
	records, err := s.load()
	if err != nil {
		return entities.DeviceRecord{}, err
	}
	record, ok := records[name]
	if !ok {
		return entities.DeviceRecord{Name: name}, nil
	}
	record.Name = name
	return record, nil
}

func (s *Store) UpdateProtocols(ctx context.Context, name string, protocols entities.Protocols) error {
	records, err := s.load()
	if err != nil {
		return err
	}
	record := records[name]
	record.Name = name
	record.Protocols = protocols
	records[name] = record

	data, err := yaml.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "encode records")
	}
	if err := s.fileManagement.writeRecordsFile(s.path, data); err != nil {
		return errors.Wrap(err, "write records file")
	}
	s.log.WithField("Device", name).Debug("wrote records file")
	return nil
}

// load treats a missing file as an empty store.
func (s *Store) load() (map[string]entities.DeviceRecord, error) {
	records := make(map[string]entities.DeviceRecord)
	content, err := s.fileManagement.readRecordsFile(s.path)
	if os.IsNotExist(err) {
		return records, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read records file")
	}
	if err := yaml.Unmarshal(content, &records); err != nil {
		return nil, errors.Wrap(err, "decode records file")
	}
	return records, nil
}
