package logger_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/whichracket/advisor/pkg/logger"
)

func TestGlobalLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			log := logger.Get()
			So(log, ShouldNotBeNil)
			So(func() {
				log.Info(context.Background(), "message",
					logger.String("key", "value"),
					logger.Int("count", 1),
					logger.Float64("ratio", 0.5),
					logger.Bool("ok", true),
					logger.Any("payload", map[string]int{"a": 1}),
					logger.Error(errors.New("boom")),
				)
			}, ShouldNotPanic)
		})

		Convey("And derived loggers work", func() {
			named := logger.Named("component")
			So(named, ShouldNotBeNil)

			bound := named.With(logger.String("sessionID", "s1"))
			So(func() { bound.Debug(context.Background(), "derived") }, ShouldNotPanic)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the level parser", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then known names are accepted", func() {
			for _, level := range []string{"debug", "info", "warn", "warning", "error", "INFO", " info ", ""} {
				So(logger.SetLevelString(level), ShouldBeNil)
			}
		})

		Convey("And unknown names are rejected", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
