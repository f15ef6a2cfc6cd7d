package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/optiwork/internal/adapters/http/api"
	"github.com/okian/optiwork/internal/adapters/repository"
	"github.com/okian/optiwork/internal/domain/fixtures"
	"github.com/okian/optiwork/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newAPI() *httptest.Server {
	set, err := fixtures.Embedded()
	So(err, ShouldBeNil)
	store := repository.NewMemoryStore(set)
	return httptest.NewServer(api.NewServer(store).Handler(context.Background()))
}

func testConfig(url string) *Config {
	return &Config{
		BaseURL:       url,
		NumTasks:      60,
		Workers:       8,
		Timeout:       5 * time.Second,
		CompleteEvery: 3,
		DeleteEvery:   5,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running API", t, func() {
		srv := newAPI()
		defer srv.Close()
		ctx := context.Background()
		config := testConfig(srv.URL)

		Convey("When the load test runs without reset", func() {
			err := Run(ctx, config)

			Convey("Then it succeeds and leaves the created tasks behind", func() {
				So(err, ShouldBeNil)
				var list []map[string]any
				So(newHTTPClient(srv.URL, time.Second).do(ctx, http.MethodGet, "/tasks", nil, &list, http.StatusOK), ShouldBeNil)
				// 5 seeded + 60 created - 12 deleted
				So(list, ShouldHaveLength, 53)
			})
		})

		Convey("When the load test runs with reset and an output file", func() {
			config.Reset = true
			config.OutputFile = filepath.Join(t.TempDir(), "out", "tasks.json")
			err := Run(ctx, config)

			Convey("Then the data is back at the baseline", func() {
				So(err, ShouldBeNil)
				h, err := fetchHealth(ctx, newHTTPClient(srv.URL, time.Second))
				So(err, ShouldBeNil)
				So(h.DataCounts["tasks"], ShouldEqual, 5)
			})

			Convey("And the tasks were saved with their ids", func() {
				raw, err := os.ReadFile(config.OutputFile)
				So(err, ShouldBeNil)
				var saved []map[string]any
				So(json.Unmarshal(raw, &saved), ShouldBeNil)
				So(saved, ShouldHaveLength, 60)
				So(saved[0]["id"], ShouldNotBeEmpty)
				So(saved[2]["completed"], ShouldEqual, true)
				So(saved[4]["deleted"], ShouldEqual, true)
			})
		})

		Convey("When the config is invalid", func() {
			config.Workers = 0
			err := Run(ctx, config)

			Convey("Then Run refuses to start", func() {
				So(errors.Is(err, errInvalidConfig), ShouldBeTrue)
			})
		})
	})

	Convey("Given no service at the URL", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		Convey("Then the health check fails", func() {
			err := Run(context.Background(), testConfig(url))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "service health check failed")
		})
	})
}

func TestVerifyTasks(t *testing.T) {
	Convey("Given a server whose task list disagrees with the client", t, func() {
		var list []map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(list)
		}))
		defer srv.Close()
		client := newHTTPClient(srv.URL, time.Second)
		ctx := context.Background()

		task := created{Task: Task{Ref: "r1"}, ID: "t1", Completed: true}
		stats := &Stats{TasksCreated: 1}

		Convey("When a completed task has no timestamp", func() {
			list = []map[string]any{{"id": "t1", "ref": "r1", "status": "completed", "completedAt": nil}}
			err := verifyTasks(ctx, client, []created{task}, stats)
			So(errors.Is(err, errInconsistent), ShouldBeTrue)
		})

		Convey("When a task is listed twice", func() {
			list = []map[string]any{{"id": "t1"}, {"id": "t1"}}
			err := verifyTasks(ctx, client, []created{task}, stats)
			So(errors.Is(err, errInconsistent), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "duplicate id")
		})

		Convey("When a deleted task is still listed", func() {
			task.Deleted = true
			list = []map[string]any{{"id": "t1", "ref": "r1", "status": "completed", "completedAt": "2025-10-16T09:30:00.000Z"}}
			err := verifyTasks(ctx, client, []created{task}, stats)
			So(errors.Is(err, errInconsistent), ShouldBeTrue)
		})

		Convey("When everything matches", func() {
			list = []map[string]any{{"id": "t1", "ref": "r1", "status": "completed", "completedAt": "2025-10-16T09:30:00.000Z"}}
			So(verifyTasks(ctx, client, []created{task}, stats), ShouldBeNil)
		})
	})
}

func TestGenerateSingleTask(t *testing.T) {
	Convey("Given generated tasks", t, func() {
		a, b := generateSingleTask(0), generateSingleTask(1)

		Convey("Then refs are unique and fields are populated", func() {
			So(a.Ref, ShouldNotEqual, b.Ref)
			So(a.Title, ShouldNotBeEmpty)
			So(priorities, ShouldContain, a.Priority)
			So(a.RequiredSkills, ShouldNotBeEmpty)
			So(len(a.RequiredSkills), ShouldBeLessThanOrEqualTo, maxSkillsPerTask)
			_, err := time.Parse(time.DateOnly, a.DueDate)
			So(err, ShouldBeNil)
		})
	})
}
