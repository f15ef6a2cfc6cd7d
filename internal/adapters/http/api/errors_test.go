package api

import (
	"errors"
	"testing"

	"github.com/okian/optiwork/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorWrapping(t *testing.T) {
	Convey("Given a store error tagged with an operation and kind", t, func() {
		err := WrapKind("api.login", ErrUnauthorized, repository.ErrInvalidPassword)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)
			So(errors.Is(err, repository.ErrUnauthorized), ShouldBeTrue)
			So(err.Error(), ShouldStartWith, "api.login: unauthorized: ")
		})
	})

	Convey("Given a kind without a cause", t, func() {
		err := WrapKind("api.create_task", ErrBadRequest, nil)

		Convey("Then the message names only the kind", func() {
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.create_task: bad request")
		})
	})

	Convey("Given Wrap", t, func() {
		Convey("Then a nil error stays nil", func() {
			So(Wrap("api.get_task", nil), ShouldBeNil)
		})

		Convey("And a cause is prefixed and still matchable", func() {
			err := Wrap("api.get_task", repository.ErrNotFound)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.get_task: record not found")
		})
	})
}
