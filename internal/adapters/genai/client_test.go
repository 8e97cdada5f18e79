package genai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/bfhl/internal/adapters/genai"
	. "github.com/smartystreets/goconvey/convey"
)

type captured struct {
	method      string
	path        string
	key         string
	contentType string
	body        map[string]any
}

// fakeProvider answers every request with status and body and records what it saw.
func fakeProvider(status int, body string, seen *captured) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen.method = r.Method
			seen.path = r.URL.Path
			seen.key = r.URL.Query().Get("key")
			seen.contentType = r.Header.Get("Content-Type")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &seen.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

const answer42 = `{"candidates":[{"content":{"parts":[{"text":"The answer is **42**."}]}}]}`

func TestClient_Generate(t *testing.T) {
	Convey("Given a client pointed at a fake provider", t, func() {
		ctx := context.Background()

		Convey("When the provider answers successfully", func() {
			var seen captured
			srv := fakeProvider(http.StatusOK, answer42, &seen)
			defer srv.Close()

			client := genai.New("secret-key", genai.WithBaseURL(srv.URL+"/"), genai.WithModel("test-model"))
			text, err := client.Generate(ctx, "What is six times seven?")

			Convey("Then the first candidate text is returned", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "The answer is **42**.")
			})

			Convey("And the request follows the generateContent contract", func() {
				So(seen.method, ShouldEqual, http.MethodPost)
				So(seen.path, ShouldEqual, "/v1beta/models/test-model:generateContent")
				So(seen.key, ShouldEqual, "secret-key")
				So(seen.contentType, ShouldEqual, "application/json")

				contents := seen.body["contents"].([]any)
				parts := contents[0].(map[string]any)["parts"].([]any)
				So(parts[0].(map[string]any)["text"], ShouldEqual, "What is six times seven?")
			})
		})

		Convey("When the provider returns an error status", func() {
			srv := fakeProvider(http.StatusForbidden, `{"error":{"message":"API key not valid"}}`, nil)
			defer srv.Close()

			_, err := genai.New("bad", genai.WithBaseURL(srv.URL)).Generate(ctx, "hi")

			Convey("Then ErrUpstreamStatus is returned", func() {
				So(errors.Is(err, genai.ErrUpstreamStatus), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "403")
			})
		})

		Convey("When the response has no usable text", func() {
			for _, body := range []string{
				`{}`,
				`{"candidates":[]}`,
				`{"candidates":[{"content":{"parts":[]}}]}`,
				`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
			} {
				srv := fakeProvider(http.StatusOK, body, nil)
				_, err := genai.New("k", genai.WithBaseURL(srv.URL)).Generate(ctx, "hi")
				srv.Close()

				So(errors.Is(err, genai.ErrEmptyCandidate), ShouldBeTrue)
			}
		})

		Convey("When the response is not JSON", func() {
			srv := fakeProvider(http.StatusOK, `<html>oops</html>`, nil)
			defer srv.Close()

			_, err := genai.New("k", genai.WithBaseURL(srv.URL)).Generate(ctx, "hi")

			Convey("Then ErrDecode is returned", func() {
				So(errors.Is(err, genai.ErrDecode), ShouldBeTrue)
			})
		})

		Convey("When the provider is unreachable", func() {
			srv := fakeProvider(http.StatusOK, answer42, nil)
			url := srv.URL
			srv.Close()

			_, err := genai.New("very-secret", genai.WithBaseURL(url)).Generate(ctx, "hi")

			Convey("Then the error does not leak the key", func() {
				So(err, ShouldNotBeNil)
				So(strings.Contains(err.Error(), "very-secret"), ShouldBeFalse)
			})
		})

		Convey("When the provider is slower than the timeout", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			}))
			defer srv.Close()

			client := genai.New("k", genai.WithBaseURL(srv.URL), genai.WithTimeout(50*time.Millisecond))
			_, err := client.Generate(ctx, "hi")

			Convey("Then the call is abandoned with a deadline error", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})
	})
}

func TestClient_NotConfigured(t *testing.T) {
	Convey("Given a client without a key", t, func() {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
		defer srv.Close()

		client := genai.New("", genai.WithBaseURL(srv.URL))

		Convey("Then it reports itself unconfigured and never calls out", func() {
			So(client.Configured(), ShouldBeFalse)
			_, err := client.Generate(context.Background(), "hi")
			So(errors.Is(err, genai.ErrNotConfigured), ShouldBeTrue)
			So(calls, ShouldEqual, 0)
		})
	})
}
