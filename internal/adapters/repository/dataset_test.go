package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/skillwheel/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var scenario = model.Dataset{
	{Name: "A", MainSkills: []string{"x"}, OtherSkills: []string{"y"}},
	{Name: "B", MainSkills: []string{"y"}, OtherSkills: []string{}},
}

const scenarioJSON = `[
  {"name": "A", "mainSkills": ["x"], "otherSkills": ["y"]},
  {"name": "B", "mainSkills": ["y"], "otherSkills": []}
]`

const scenarioYAML = `
- name: A
  mainSkills: [x]
  otherSkills: [y]
- name: B
  mainSkills: [y]
  otherSkills: []
`

const scenarioTOML = `
[[competence]]
name = "A"
mainSkills = ["x"]
otherSkills = ["y"]

[[competence]]
name = "B"
mainSkills = ["y"]
otherSkills = []
`

func TestDecode(t *testing.T) {
	Convey("Given the same dataset in every format", t, func() {
		for _, tc := range []struct {
			format Format
			body   string
		}{
			{FormatJSON, scenarioJSON},
			{FormatYAML, scenarioYAML},
			{FormatTOML, scenarioTOML},
		} {
			Convey("When decoding "+string(tc.format), func() {
				ds, err := Decode(strings.NewReader(tc.body), tc.format)

				Convey("Then it matches the model", func() {
					So(err, ShouldBeNil)
					So(ds, ShouldResemble, scenario)
				})
			})
		}
	})

	Convey("Given a competence without otherSkills", t, func() {
		_, err := Decode(strings.NewReader(`[{"name":"A","mainSkills":["x"]}]`), FormatJSON)

		Convey("Then a MalformedEntityError names the field", func() {
			var me *model.MalformedEntityError
			So(errors.As(err, &me), ShouldBeTrue)
			So(me.Field, ShouldEqual, "otherSkills")
			So(me.Name, ShouldEqual, "A")
			So(errors.Is(err, model.ErrMalformedEntity), ShouldBeTrue)
		})
	})

	Convey("Given a yaml competence without mainSkills", t, func() {
		_, err := Decode(strings.NewReader("- name: Z\n  otherSkills: [q]\n"), FormatYAML)

		So(errors.Is(err, model.ErrMalformedEntity), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "mainSkills")
	})

	Convey("Given broken input", t, func() {
		_, err := Decode(strings.NewReader(`{"name":`), FormatJSON)
		So(errors.Is(err, ErrDecode), ShouldBeTrue)

		_, err = Decode(strings.NewReader(`[]`), Format("csv"))
		So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)
	})

	Convey("Given an empty list", t, func() {
		ds, err := Decode(strings.NewReader(`[]`), FormatJSON)
		So(err, ShouldBeNil)
		So(ds, ShouldBeEmpty)
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given dataset files on disk", t, func() {
		dir := t.TempDir()
		write := func(name, body string) string {
			p := filepath.Join(dir, name)
			So(os.WriteFile(p, []byte(body), 0o600), ShouldBeNil)
			return p
		}

		Convey("Then the extension picks the decoder", func() {
			ds, err := LoadFile(write("d.yml", scenarioYAML))
			So(err, ShouldBeNil)
			So(ds, ShouldResemble, scenario)

			ds, err = LoadFile(write("d.toml", scenarioTOML))
			So(err, ShouldBeNil)
			So(ds, ShouldResemble, scenario)
		})

		Convey("Then unknown extensions and missing files fail", func() {
			_, err := LoadFile(write("d.csv", "a,b"))
			So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)

			_, err = LoadFile(filepath.Join(dir, "missing.json"))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			So(errors.Is(err, ErrRead), ShouldBeTrue)
		})
	})
}

func TestSample(t *testing.T) {
	Convey("Given the embedded sample", t, func() {
		ds := Sample()

		Convey("Then it decodes into well-formed competences", func() {
			So(len(ds), ShouldBeGreaterThan, 1)
			for _, c := range ds {
				So(c.Name, ShouldNotBeBlank)
				So(c.MainSkills, ShouldNotBeNil)
				So(c.OtherSkills, ShouldNotBeNil)
			}
		})
	})
}

func TestDatasetStore(t *testing.T) {
	Convey("Given a store serving the scenario", t, func() {
		s := NewDatasetStore(scenario, "test")
		first := s.Current()

		So(first.Version, ShouldEqual, uint64(1))
		So(first.Source, ShouldEqual, "test")
		So(len(first.Index.Skills()), ShouldEqual, 2)

		Convey("When the dataset is replaced", func() {
			next := s.Replace(scenario[:1], "reload")

			Convey("Then a new version is served and the old snapshot is untouched", func() {
				So(next.Version, ShouldEqual, uint64(2))
				So(s.Current(), ShouldEqual, next)
				So(len(first.Dataset), ShouldEqual, 2)
				So(len(next.Dataset), ShouldEqual, 1)
			})
		})

		Convey("When replaced with nil", func() {
			next := s.Replace(nil, "empty")
			So(next.Dataset, ShouldNotBeNil)
			So(next.Dataset, ShouldBeEmpty)
		})
	})
}
