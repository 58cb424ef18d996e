package qsim

import (
	"bytes"
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestLoadConfig(t *testing.T) {
	Convey("Given an empty viper instance", t, func() {
		config, err := LoadConfig(viper.New())
		So(err, ShouldBeNil)

		Convey("It should fall back to the defaults", func() {
			So(config.Precision, ShouldEqual, Double)
			So(config.Workers, ShouldEqual, runtime.NumCPU())
			So(config.MinChunk, ShouldEqual, 1<<12)
		})
	})

	Convey("Given a YAML config file", t, func() {
		v := viper.New()
		v.SetConfigType("yaml")
		So(v.ReadConfig(bytes.NewBufferString("precision: single\nworkers: 3\nmin_chunk: 64\n")), ShouldBeNil)

		Convey("Its values should be used", func() {
			config, err := LoadConfig(v)
			So(err, ShouldBeNil)
			So(config.Precision, ShouldEqual, Single)
			So(config.Workers, ShouldEqual, 3)
			So(config.MinChunk, ShouldEqual, 64)
		})

		Convey("QSIM_ environment variables should override it", func() {
			t.Setenv("QSIM_WORKERS", "7")
			t.Setenv("QSIM_PRECISION", "double")

			config, err := LoadConfig(v)
			So(err, ShouldBeNil)
			So(config.Workers, ShouldEqual, 7)
			So(config.Precision, ShouldEqual, Double)
			So(config.MinChunk, ShouldEqual, 64)
		})
	})

	Convey("Given invalid settings", t, func() {
		Convey("An unknown precision should fail", func() {
			v := viper.New()
			v.Set("precision", "quad")
			_, err := LoadConfig(v)
			So(err, ShouldNotBeNil)
		})

		Convey("Zero workers should fail", func() {
			v := viper.New()
			v.Set("workers", 0)
			_, err := LoadConfig(v)
			So(err, ShouldNotBeNil)
		})

		Convey("A negative chunk size should fail", func() {
			v := viper.New()
			v.Set("min_chunk", -1)
			_, err := LoadConfig(v)
			So(err, ShouldNotBeNil)
		})
	})
}
