package out

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"vgdesk/internal/modules/analysis/domain"
	analysisout "vgdesk/internal/modules/analysis/port/out"
)

// maxErrorBody bounds how much of a rejected response is kept for logging.
const maxErrorBody = 512

type HTTPInference struct {
	endpoint string
	client   *http.Client
}

// NewHTTPInference posts to endpoint. A zero timeout means none, matching the
// upstream service which can take minutes on long videos.
func NewHTTPInference(endpoint string, timeout time.Duration) analysisout.Inference {
	return &HTTPInference{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

func NewHTTPInferenceWithClient(endpoint string, client *http.Client) analysisout.Inference {
	return &HTTPInference{endpoint: endpoint, client: client}
}

func (h *HTTPInference) Predict(ctx context.Context, video domain.VideoFile, query string) (domain.Results, error) {
	file, err := os.Open(video.Path)
	if err != nil {
		return domain.Results{}, fmt.Errorf("open video: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(form, file, video, query))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, pr)
	if err != nil {
		_ = pr.Close()
		return domain.Results{}, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		_ = pr.Close()
		return domain.Results{}, fmt.Errorf("post inference request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Results{}, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return domain.Results{}, fmt.Errorf("inference endpoint returned %s: %s", resp.Status, snippet)
	}
	return ParseResults(body)
}

func writeForm(form *multipart.Writer, file io.Reader, video domain.VideoFile, query string) error {
	name := video.Name
	if name == "" {
		name = filepath.Base(video.Path)
	}
	part, err := form.CreateFormFile("video", name)
	if err != nil {
		return fmt.Errorf("create video part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy video: %w", err)
	}
	if err := form.WriteField("query", query); err != nil {
		return fmt.Errorf("write query field: %w", err)
	}
	return form.Close()
}

// ParseResults decodes the endpoint payload. Moments are positional
// [start, end, score] triples; a missing highlight list reads as empty.
func ParseResults(body []byte) (domain.Results, error) {
	if !gjson.ValidBytes(body) {
		return domain.Results{}, fmt.Errorf("inference response is not valid json")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return domain.Results{}, fmt.Errorf("inference response is not an object")
	}
	moments := doc.Get("moment_retrieval")
	if !moments.IsArray() {
		return domain.Results{}, fmt.Errorf("inference response has no moment_retrieval list")
	}

	results := domain.Results{MomentRetrieval: []domain.Moment{}, HighlightDetection: []domain.HighlightPoint{}}
	for i, triple := range moments.Array() {
		fields := triple.Array()
		if !triple.IsArray() || len(fields) < 3 {
			return domain.Results{}, fmt.Errorf("moment %d: expected [start, end, score]", i)
		}
		if fields[2].Type != gjson.Number {
			return domain.Results{}, fmt.Errorf("moment %d: score is not a number", i)
		}
		results.MomentRetrieval = append(results.MomentRetrieval, domain.Moment{
			StartTime: fields[0].String(),
			EndTime:   fields[1].String(),
			Score:     fields[2].Float(),
		})
	}

	if highlights := doc.Get("highlight_detection"); highlights.IsArray() {
		results.HighlightDetection = lo.Map(highlights.Array(), func(p gjson.Result, _ int) domain.HighlightPoint {
			return domain.HighlightPoint{X: p.Get("x").Float(), Y: p.Get("y").Float()}
		})
	}
	return results, nil
}
