package workspace

import (
	"context"

	"github.com/sjzsdu/workbench/editor"
	"github.com/sjzsdu/workbench/engine"
	"github.com/sjzsdu/workbench/storage"
	"github.com/stretchr/testify/mock"
)

// MockEditor 模拟编辑器能力
type MockEditor struct {
	mock.Mock
}

func (m *MockEditor) Value() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockEditor) SetValue(text string) {
	m.Called(text)
}

func (m *MockEditor) SetMarkers(source string, markers []editor.Marker) {
	m.Called(source, markers)
}

func (m *MockEditor) RevealPosition(line, column int) {
	m.Called(line, column)
}

func (m *MockEditor) Selection() editor.Range {
	args := m.Called()
	return args.Get(0).(editor.Range)
}

func (m *MockEditor) SetSelection(r editor.Range) {
	m.Called(r)
}

// newMockEditor 接受任意的 SetValue 和 SetMarkers 调用
func newMockEditor() *MockEditor {
	ed := &MockEditor{}
	ed.On("SetValue", mock.Anything).Maybe()
	ed.On("SetMarkers", mock.Anything, mock.Anything).Maybe()
	return ed
}

// MockStorage 模拟存储能力
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Read(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, path string) ([]storage.Entry, error) {
	args := m.Called(ctx, path)
	entries, _ := args.Get(0).([]storage.Entry)
	return entries, args.Error(1)
}

func (m *MockStorage) Write(ctx context.Context, path string, text string) error {
	args := m.Called(ctx, path, text)
	return args.Error(0)
}

// MockRecords 模拟项目记录接口
type MockRecords struct {
	mock.Mock
}

func (m *MockRecords) Fetch(ctx context.Context, id string) (ProjectRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ProjectRecord), args.Error(1)
}

func (m *MockRecords) ListByOwner(ctx context.Context, ownerID string) ([]ProjectRecord, error) {
	args := m.Called(ctx, ownerID)
	recs, _ := args.Get(0).([]ProjectRecord)
	return recs, args.Error(1)
}

type handlerFunc func(ctx context.Context, req engine.Request) (engine.Response, error)

func (f handlerFunc) Handle(ctx context.Context, req engine.Request) (engine.Response, error) {
	return f(ctx, req)
}
