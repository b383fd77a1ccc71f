package storage

import "github.com/stretchr/testify/mock"

// MockStorage is a testify mock with the same method set as Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) WriteFile(key string, data []byte) error {
	args := m.Called(key, data)
	return args.Error(0)
}

func (m *MockStorage) ReadFile(key string) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) Remove(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockStorage) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}
