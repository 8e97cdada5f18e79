package reply_test

import (
	"testing"

	"github.com/okian/bfhl/internal/domain/reply"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLastWord(t *testing.T) {
	Convey("Given generated answers", t, func() {
		cases := []struct {
			in   string
			want string
		}{
			{"The answer is **42**.", "42"},
			{"The capital of France is **Paris**.", "Paris"},
			{"  Mumbai  ", "Mumbai"},
			{"Paris", "Paris"},
			{"It's New_Delhi!", "New_Delhi"},
			{"Answer:\n**Tokyo**", "AnswerTokyo"},
			{"ends with two spaces  x", "x"},
			{"trailing dots ...", ""},
			{"", ""},
			{"café", "caf"},
			{"\uFEFFanswer word \uFEFF", "word"},
			{"answer word\u2028\u3000", "word"},
			{"answer word \u0085", ""},
			{"\u0085\u0085", ""},
		}

		for _, c := range cases {
			So(reply.LastWord(c.in), ShouldEqual, c.want)
		}
	})
}
