package document_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perangkum/internal/common/pagination"
	"perangkum/internal/domain/entity"
	"perangkum/internal/handler/http/document"
	"perangkum/internal/handler/http/respond"
	docUC "perangkum/internal/usecase/document"
	"perangkum/pkg/extractive"
)

var modified = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

type stubService struct {
	docs      []*entity.Document
	listErr   error
	content   map[string]string
	uploaded  map[string][]byte
	created   *document.CreateRequest
	deleted   []string
	uploadErr error
	createErr error
}

func (s *stubService) List(context.Context) ([]*entity.Document, error) {
	return s.docs, s.listErr
}

func (s *stubService) Get(_ context.Context, name string) (*docUC.Content, error) {
	text, ok := s.content[name]
	if !ok {
		return nil, fmt.Errorf("get document: %w: document %q", entity.ErrNotFound, name)
	}
	return &docUC.Content{
		Document: &entity.Document{Name: name, Format: entity.FormatText, Size: int64(len(text)), ModifiedAt: modified},
		Text:     text,
	}, nil
}

func (s *stubService) Upload(_ context.Context, name string, r io.Reader) (*entity.Document, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	if err := entity.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if s.uploaded == nil {
		s.uploaded = map[string][]byte{}
	}
	s.uploaded[name] = data
	f, _ := entity.FormatOf(name)
	return &entity.Document{Name: name, Format: f, Size: int64(len(data)), ModifiedAt: modified}, nil
}

func (s *stubService) Create(_ context.Context, name, content, format string) (*entity.Document, error) {
	s.created = &document.CreateRequest{Name: name, Content: content, Format: format}
	if s.createErr != nil {
		return nil, s.createErr
	}
	f := entity.Format(format)
	full := entity.WithExtension(name, f)
	return &entity.Document{Name: full, Format: f, Size: int64(len(content)), ModifiedAt: modified}, nil
}

func (s *stubService) Delete(_ context.Context, name string) error {
	if _, ok := s.content[name]; !ok {
		return fmt.Errorf("delete document: %w", entity.ErrNotFound)
	}
	s.deleted = append(s.deleted, name)
	return nil
}

type stubSummarizer struct {
	summary *entity.Summary
	err     error
	name    string
}

func (s *stubSummarizer) SummarizeDocument(_ context.Context, name string) (*entity.Summary, error) {
	s.name = name
	return s.summary, s.err
}

func passThrough(next http.Handler) http.Handler { return next }

func newMux(svc *stubService, sum *stubSummarizer, guard func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	document.Register(mux, document.Config{
		Service:       svc,
		Summarizer:    sum,
		Pagination:    pagination.DefaultConfig(),
		MaxBodySize:   1 << 10,
		MaxUploadSize: 1 << 10,
		WriteGuard:    guard,
	})
	return mux
}

func serve(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body respond.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestListHandler(t *testing.T) {
	svc := &stubService{docs: []*entity.Document{
		{Name: "a.txt", Format: entity.FormatText, Size: 3, ModifiedAt: modified},
		{Name: "b.pdf", Format: entity.FormatPDF, Size: 4, ModifiedAt: modified},
		{Name: "c.docx", Format: entity.FormatDOCX, Size: 5, ModifiedAt: modified},
	}}
	mux := newMux(svc, &stubSummarizer{}, nil)

	t.Run("first page", func(t *testing.T) {
		rec := serve(mux, httptest.NewRequest(http.MethodGet, "/documents?limit=2", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body pagination.Response[document.DTO]
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, []document.DTO{
			{Name: "a.txt", Format: "txt", Size: 3, ModifiedAt: modified},
			{Name: "b.pdf", Format: "pdf", Size: 4, ModifiedAt: modified},
		}, body.Data)
		assert.Equal(t, pagination.Metadata{Total: 3, Page: 1, Limit: 2, TotalPages: 2}, body.Pagination)
	})

	t.Run("page past the end", func(t *testing.T) {
		rec := serve(mux, httptest.NewRequest(http.MethodGet, "/documents?page=9", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := serve(mux, httptest.NewRequest(http.MethodGet, "/documents?limit=1000", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorBody(t, rec), "limit must be between 1 and 100")
	})

	t.Run("store failure", func(t *testing.T) {
		failing := newMux(&stubService{listErr: errors.New("open documents: permission denied")}, &stubSummarizer{}, nil)
		rec := serve(failing, httptest.NewRequest(http.MethodGet, "/documents", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", errorBody(t, rec))
	})
}

func TestGetHandler(t *testing.T) {
	svc := &stubService{content: map[string]string{"notes.txt": "Budi pergi ke pasar."}}
	mux := newMux(svc, &stubSummarizer{}, nil)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/documents/notes.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body document.ContentDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "notes.txt", body.Name)
	assert.Equal(t, "Budi pergi ke pasar.", body.Text)

	rec = serve(mux, httptest.NewRequest(http.MethodGet, "/documents/missing.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, errorBody(t, rec), "not found")
}

func TestSummaryHandler(t *testing.T) {
	tests := []struct {
		name       string
		summarizer *stubSummarizer
		wantStatus int
	}{
		{
			name: "success",
			summarizer: &stubSummarizer{summary: &entity.Summary{
				Source: "notes.txt", Text: "Ibu memasak di dapur.", SentenceCount: 3, VocabularySize: 7,
			}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found",
			summarizer: &stubSummarizer{err: fmt.Errorf("get document: %w", entity.ErrNotFound)},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "empty vocabulary",
			summarizer: &stubSummarizer{err: fmt.Errorf("summarize: %w", extractive.ErrEmptyVocabulary)},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unsupported format",
			summarizer: &stubSummarizer{err: fmt.Errorf("%w: notes.odt", entity.ErrUnsupportedFormat)},
			wantStatus: http.StatusUnsupportedMediaType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newMux(&stubService{}, tt.summarizer, nil)
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/documents/notes.txt/summary", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "notes.txt", tt.summarizer.name)
			if tt.wantStatus == http.StatusOK {
				var s entity.Summary
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&s))
				assert.Equal(t, "Ibu memasak di dapur.", s.Text)
			}
		})
	}
}

func TestCreateHandler(t *testing.T) {
	t.Run("defaults to txt", func(t *testing.T) {
		svc := &stubService{}
		mux := newMux(svc, &stubSummarizer{}, passThrough)
		req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{"name":"catatan","content":"Budi pergi ke pasar."}`))
		rec := serve(mux, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/documents/catatan.txt", rec.Header().Get("Location"))
		assert.Equal(t, "txt", svc.created.Format)
		var body document.DTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "catatan.txt", body.Name)
	})

	t.Run("invalid json", func(t *testing.T) {
		mux := newMux(&stubService{}, &stubSummarizer{}, passThrough)
		rec := serve(mux, httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid JSON body", errorBody(t, rec))
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &stubService{createErr: &entity.ValidationError{Field: "content", Message: "content is required"}}
		mux := newMux(svc, &stubSummarizer{}, passThrough)
		rec := serve(mux, httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{"name":"x"}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorBody(t, rec), "content is required")
	})

	t.Run("unwritable format", func(t *testing.T) {
		svc := &stubService{createErr: fmt.Errorf("%w: cannot author html documents", entity.ErrUnsupportedFormat)}
		mux := newMux(svc, &stubSummarizer{}, passThrough)
		rec := serve(mux, httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{"name":"x","content":"y","format":"pdf"}`)))
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		mux := newMux(&stubService{}, &stubSummarizer{}, passThrough)
		big := `{"name":"x","content":"` + strings.Repeat("a", 2048) + `"}`
		rec := serve(mux, httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(big)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("comment", "ignored"))
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	t.Run("stores file under its base name", func(t *testing.T) {
		svc := &stubService{}
		mux := newMux(svc, &stubSummarizer{}, passThrough)
		body, ct := multipartBody(t, "file", "../../laporan.txt", "Budi pergi ke pasar.")
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(mux, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, []byte("Budi pergi ke pasar."), svc.uploaded["laporan.txt"])
		assert.Equal(t, "/documents/laporan.txt", rec.Header().Get("Location"))
	})

	t.Run("missing file field", func(t *testing.T) {
		mux := newMux(&stubService{}, &stubSummarizer{}, passThrough)
		body, ct := multipartBody(t, "", "", "")
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(mux, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorBody(t, rec), "file is required")
	})

	t.Run("not multipart", func(t *testing.T) {
		mux := newMux(&stubService{}, &stubSummarizer{}, passThrough)
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", strings.NewReader("hello"))
		req.Header.Set("Content-Type", "text/plain")
		rec := serve(mux, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unreadable document", func(t *testing.T) {
		svc := &stubService{uploadErr: fmt.Errorf("%w: malformed PDF", docUC.ErrUnreadable)}
		mux := newMux(svc, &stubSummarizer{}, passThrough)
		body, ct := multipartBody(t, "file", "scan.pdf", "%PDF-garbage")
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(mux, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("upload over limit", func(t *testing.T) {
		mux := newMux(&stubService{}, &stubSummarizer{}, passThrough)
		body, ct := multipartBody(t, "file", "big.txt", strings.Repeat("a", 4096))
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(mux, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestDeleteHandler(t *testing.T) {
	svc := &stubService{content: map[string]string{"notes.txt": "x"}}
	mux := newMux(svc, &stubSummarizer{}, passThrough)

	rec := serve(mux, httptest.NewRequest(http.MethodDelete, "/documents/notes.txt", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"notes.txt"}, svc.deleted)

	rec = serve(mux, httptest.NewRequest(http.MethodDelete, "/documents/other.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegister_WriteGuard(t *testing.T) {
	t.Run("write routes absent without guard", func(t *testing.T) {
		mux := newMux(&stubService{content: map[string]string{"notes.txt": "x"}}, &stubSummarizer{}, nil)

		rec := serve(mux, httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

		rec = serve(mux, httptest.NewRequest(http.MethodDelete, "/documents/notes.txt", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("guard wraps write routes only", func(t *testing.T) {
		deny := func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})
		}
		mux := newMux(&stubService{content: map[string]string{"notes.txt": "x"}}, &stubSummarizer{}, deny)

		assert.Equal(t, http.StatusUnauthorized, serve(mux, httptest.NewRequest(http.MethodPost, "/documents", nil)).Code)
		assert.Equal(t, http.StatusUnauthorized, serve(mux, httptest.NewRequest(http.MethodPost, "/documents/upload", nil)).Code)
		assert.Equal(t, http.StatusUnauthorized, serve(mux, httptest.NewRequest(http.MethodDelete, "/documents/notes.txt", nil)).Code)
		assert.Equal(t, http.StatusOK, serve(mux, httptest.NewRequest(http.MethodGet, "/documents/notes.txt", nil)).Code)
	})
}
