package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/bfhl/internal/config"
	"github.com/okian/bfhl/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type envelope struct {
	IsSuccess     bool            `json:"is_success"`
	OfficialEmail string          `json:"official_email"`
	Data          json.RawMessage `json:"data"`
	Error         string          `json:"error"`
}

func post(t *testing.T, url, body string) envelope {
	t.Helper()
	resp, err := http.Post(url+"/bfhl", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var out envelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestMainApplication(t *testing.T) {
	convey.Convey("Given the assembled HTTP stack", t, func() {
		convey.So(logger.Init(logger.WithOutput(io.Discard)), convey.ShouldBeNil)
		ctx := context.Background()

		gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"The capital is **Tokyo**."}]}}]}`))
		}))
		defer gemini.Close()

		cfg := config.New()
		cfg.GeminiAPIKey = "test-key"
		cfg.GeminiBaseURL = gemini.URL

		srv := httptest.NewServer(newHandler(ctx, cfg))
		defer srv.Close()

		convey.Convey("When the health probe is called", func() {
			resp, err := http.Get(srv.URL + "/health")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			convey.Convey("Then it reports the identity", func() {
				var out envelope
				convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(out.IsSuccess, convey.ShouldBeTrue)
				convey.So(out.OfficialEmail, convey.ShouldEqual, config.DefaultOfficialEmail)
			})
		})

		convey.Convey("When operations are posted", func() {
			convey.Convey("Then numeric results are returned", func() {
				convey.So(string(post(t, srv.URL, `{"fibonacci":7}`).Data), convey.ShouldEqual, `[0,1,1,2,3,5,8]`)
				convey.So(string(post(t, srv.URL, `{"hcf":[24,36,60]}`).Data), convey.ShouldEqual, `12`)
			})

			convey.Convey("And the AI operation goes through the configured provider", func() {
				out := post(t, srv.URL, `{"AI":"What is the capital of Japan?"}`)
				convey.So(out.IsSuccess, convey.ShouldBeTrue)
				convey.So(string(out.Data), convey.ShouldEqual, `"Tokyo"`)
			})

			convey.Convey("And fractional lcm and hcf are folded in floating point", func() {
				convey.So(string(post(t, srv.URL, `{"hcf":[1.5,3]}`).Data), convey.ShouldEqual, `1.5`)
				convey.So(string(post(t, srv.URL, `{"lcm":[2.5,5]}`).Data), convey.ShouldEqual, `5`)
			})

			convey.Convey("And the default fibonacci limit applies", func() {
				out := post(t, srv.URL, `{"fibonacci":1001}`)
				convey.So(out.IsSuccess, convey.ShouldBeFalse)
				convey.So(out.Error, convey.ShouldEqual, "Invalid request")
			})
		})

		convey.Convey("When the docs and metrics routes are requested", func() {
			for _, path := range []string{"/api-docs", "/openapi.yaml", "/metrics"} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a manual update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And the ticker loop stops with its context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()
			<-done
			convey.So(ctx.Err(), convey.ShouldNotBeNil)
		})
	})
}
