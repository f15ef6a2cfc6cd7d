package model_test

import (
	"testing"

	model "github.com/okian/optiwork/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRecordClone(t *testing.T) {
	convey.Convey("Given a record with nested values", t, func() {
		original := model.Record{
			"id":    "1",
			"title": "Machine Setup",
			"checklist": []any{
				map[string]any{"id": "1", "completed": true},
			},
			"feedback": map[string]any{
				"employeeFeedback": map[string]any{"clarity": 5},
			},
		}

		convey.Convey("When the clone's nested values are mutated", func() {
			cp := original.Clone()
			cp["title"] = "changed"
			cp["checklist"].([]any)[0].(map[string]any)["completed"] = false
			cp["feedback"].(map[string]any)["employeeFeedback"].(map[string]any)["clarity"] = 1

			convey.Convey("Then the original is untouched", func() {
				convey.So(original["title"], convey.ShouldEqual, "Machine Setup")
				convey.So(original["checklist"].([]any)[0].(map[string]any)["completed"], convey.ShouldBeTrue)
				convey.So(original["feedback"].(map[string]any)["employeeFeedback"].(map[string]any)["clarity"], convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When cloning a nil record", func() {
			var r model.Record
			convey.So(r.Clone(), convey.ShouldBeNil)
		})
	})
}

func TestRecordHelpers(t *testing.T) {
	convey.Convey("Given a task record", t, func() {
		r := model.Record{"id": "7", "status": "pending", "completedAt": nil, "notes": ""}

		convey.Convey("IsUnset treats absent, null and empty values alike", func() {
			convey.So(r.IsUnset("completedAt"), convey.ShouldBeTrue)
			convey.So(r.IsUnset("notes"), convey.ShouldBeTrue)
			convey.So(r.IsUnset("missing"), convey.ShouldBeTrue)
			convey.So(r.IsUnset("status"), convey.ShouldBeFalse)
		})

		convey.Convey("Merge overwrites only the supplied keys", func() {
			r.Merge(model.Record{"status": "in_progress", "priority": "high"})
			convey.So(r["status"], convey.ShouldEqual, "in_progress")
			convey.So(r["priority"], convey.ShouldEqual, "high")
			convey.So(r["id"], convey.ShouldEqual, "7")
		})

		convey.Convey("Matches tries every key in order", func() {
			perf := model.Record{"employee_id": "EMP004"}
			convey.So(perf.Matches(model.Performance.IdentityKeys(), "EMP004"), convey.ShouldBeTrue)
			convey.So(perf.Matches(model.Performance.IdentityKeys(), "EMP005"), convey.ShouldBeFalse)
		})

		convey.Convey("String ignores non-string values", func() {
			n := model.Record{"id": 42}
			_, ok := n.String("id")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestCollections(t *testing.T) {
	convey.Convey("Given the known collections", t, func() {
		convey.Convey("Every collection is valid", func() {
			for _, c := range model.Collections {
				convey.So(c.Valid(), convey.ShouldBeTrue)
			}
		})

		convey.Convey("Unknown names are rejected", func() {
			convey.So(model.Collection("invoices").Valid(), convey.ShouldBeFalse)
		})

		convey.Convey("Reports are keyed by date", func() {
			convey.So(model.Reports.IdentityKeys(), convey.ShouldResemble, []string{"date"})
		})

		convey.Convey("CloneAll never returns nil", func() {
			convey.So(model.CloneAll(nil), convey.ShouldNotBeNil)
			convey.So(model.CloneAll(nil), convey.ShouldBeEmpty)
		})
	})
}
