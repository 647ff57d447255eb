package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

type storageStub struct {
	lastName string
	uploaded bytes.Buffer
}

func (s *storageStub) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	s.lastName = name
	s.uploaded.Reset()
	if _, err := s.uploaded.ReadFrom(reader); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + name, nil
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {"form-data; name=\"file\"; filename=\"" + filename + "\""},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestMediaStoreRejectsOversizedFile(t *testing.T) {
	svc := NewMediaService(&storageStub{}, 1, testLogger())

	file := buildFileHeader(t, "photo.png", bytes.Repeat([]byte("a"), 2*1024*1024))
	_, err := svc.Store(context.Background(), file)
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestMediaStoreRejectsPlainText(t *testing.T) {
	svc := NewMediaService(&storageStub{}, 5, testLogger())

	file := buildFileHeader(t, "notes.txt", []byte("plain text payload"))
	_, err := svc.Store(context.Background(), file)
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
}

func TestMediaStoreAcceptsPNG(t *testing.T) {
	storage := &storageStub{}
	svc := NewMediaService(storage, 5, testLogger())

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "photo.png", pngHeader)

	url, err := svc.Store(context.Background(), file)
	require.NoError(t, err)
	require.Contains(t, url, "photo")
	require.Equal(t, pngHeader, storage.uploaded.Bytes())
}

func TestMediaStoreAcceptsPDF(t *testing.T) {
	svc := NewMediaService(&storageStub{}, 5, testLogger())

	file := buildFileHeader(t, "receipt.pdf", []byte("%PDF-1.7 receipt body"))
	url, err := svc.Store(context.Background(), file)
	require.NoError(t, err)
	require.NotEmpty(t, url)
}

func TestMediaStoreWithoutBackend(t *testing.T) {
	svc := NewMediaService(nil, 5, testLogger())

	file := buildFileHeader(t, "photo.png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	_, err := svc.Store(context.Background(), file)
	require.ErrorIs(t, err, ErrUploadStorageUnavailable)
}
