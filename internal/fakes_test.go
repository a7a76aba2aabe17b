package internal

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakeStore is an in-memory ObjectStore that counts calls
type fakeStore struct {
	mu           sync.Mutex
	buckets      map[string]bool
	objects      map[string][]byte
	contentTypes map[string]string

	ensureCalls int
	uploadCalls int
	writeCalls  int

	ensureErr error
	uploadErr error
	writeErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		buckets:      map[string]bool{},
		objects:      map[string][]byte{},
		contentTypes: map[string]string{},
	}
}

func (s *fakeStore) networkCalls() int {
	return s.ensureCalls + s.uploadCalls + s.writeCalls
}

func (s *fakeStore) EnsureBucket(_ context.Context, bucket, project, location string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureCalls++
	if s.ensureErr != nil {
		return false, s.ensureErr
	}
	if s.buckets[bucket] {
		return false, nil
	}
	s.buckets[bucket] = true
	return true, nil
}

func (s *fakeStore) Upload(_ context.Context, bucket, object string, r io.Reader, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[bucket+"/"+object] = data
	s.contentTypes[bucket+"/"+object] = contentType
	return GCSURI(bucket, object), nil
}

func (s *fakeStore) WriteObject(_ context.Context, bucket, object string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeCalls++
	if s.writeErr != nil {
		return "", s.writeErr
	}
	s.objects[bucket+"/"+object] = append([]byte(nil), data...)
	s.contentTypes[bucket+"/"+object] = contentType
	return GCSURI(bucket, object), nil
}

func (s *fakeStore) object(bucket, object string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[bucket+"/"+object]
	return string(data), ok
}

// fakeGenerator returns a canned transcript
type fakeGenerator struct {
	transcript string
	err        error
	requests   []TranscriptRequest
}

func (g *fakeGenerator) GenerateTranscript(_ context.Context, req TranscriptRequest) (string, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	return g.transcript, nil
}

// fakeRunner answers gcloud invocations from a table keyed by the joined command line
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, key)
	if err := r.errs[key]; err != nil {
		return nil, err
	}
	return []byte(r.outputs[key]), nil
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}
