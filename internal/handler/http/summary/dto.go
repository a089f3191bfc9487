// Package summary provides the HTTP handlers that summarize text supplied
// in the request, a web page or every item of a feed.
package summary

import (
	"context"

	"perangkum/internal/domain/entity"
	"perangkum/internal/handler/http/respond"
)

// Service is the summary use case consumed by the handlers.
type Service interface {
	SummarizeText(ctx context.Context, text string) (*entity.Summary, error)
	SummarizeURL(ctx context.Context, url string) (*entity.Summary, error)
	SummarizeBatch(ctx context.Context, texts []string) ([]entity.SummaryResult, error)
	SummarizeFeed(ctx context.Context, feedURL string) ([]entity.SummaryResult, error)
}

// TextRequest is the body of POST /summaries.
type TextRequest struct {
	Text string `json:"text" example:"Budi pergi ke pasar. Budi membeli buah. Ibu memasak di dapur."`
}

// URLRequest is the body of POST /summaries/url and POST /summaries/feed.
type URLRequest struct {
	URL string `json:"url" example:"https://example.com/berita/ekonomi"`
}

// BatchRequest is the body of POST /summaries/batch.
type BatchRequest struct {
	Texts []string `json:"texts"`
}

// ResultDTO is one item of a batch or feed response. Exactly one of Summary
// and Error is set.
type ResultDTO struct {
	Source  string          `json:"source" example:"text[0]"`
	Summary *entity.Summary `json:"summary,omitempty"`
	Error   string          `json:"error,omitempty" example:"empty vocabulary: document contains no scorable tokens"`
}

// BatchResponse lists per-item results in request order.
type BatchResponse struct {
	Results   []ResultDTO `json:"results"`
	Succeeded int         `json:"succeeded" example:"2"`
	Failed    int         `json:"failed" example:"1"`
}

func toBatchResponse(results []entity.SummaryResult) BatchResponse {
	resp := BatchResponse{Results: make([]ResultDTO, 0, len(results))}
	for _, r := range results {
		dto := ResultDTO{Source: r.Source, Summary: r.Summary}
		if r.Err != nil {
			dto.Summary = nil
			dto.Error = itemError(r.Err)
			resp.Failed++
		} else {
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, dto)
	}
	return resp
}

// itemError keeps client-facing messages and hides everything else.
func itemError(err error) string {
	if code := respond.StatusFor(err); code < 500 {
		return respond.SanitizeError(err)
	}
	return "summarization failed"
}
