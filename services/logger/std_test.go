package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/user"
)

func TestStdLogger(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		log   func(l core.Logger)
		want  string
	}{
		{
			name: "info",
			log:  func(l core.Logger) { l.Info("export done", map[string]interface{}{"artifacts": 3}) },
			want: "INFO  export done artifacts=3\n",
		},
		{
			name: "error with account",
			log:  func(l core.Logger) { l.Error("grading failed", errors.New("boom"), user.Account{ID: 7}) },
			want: "ERROR grading failed error=\"boom\" account=7\n",
		},
		{
			name: "debug disabled",
			log:  func(l core.Logger) { l.Debug("hidden") },
		},
		{
			name:  "debug enabled",
			debug: true,
			log:   func(l core.Logger) { l.Debug("shown") },
			want:  "DEBUG shown\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			tt.log(NewStdLogger(log.New(buf, "", 0), tt.debug))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestStdLogger_Fatal(t *testing.T) {
	origExit := exitFunc
	t.Cleanup(func() { exitFunc = origExit })
	var code int
	exitFunc = func(c int) { code = c }

	buf := new(bytes.Buffer)
	NewStdLogger(log.New(buf, "", 0), false).Fatal("db unreachable", errors.New("boom"))

	assert.Equal(t, "FATAL db unreachable error=\"boom\"\n", buf.String(), "entry must be written once")
	assert.Equal(t, 1, code)
}

func TestNew(t *testing.T) {
	std := log.New(new(bytes.Buffer), "", 0)

	_, ok := New(std, &core.Config{}).(*StdLogger)
	assert.True(t, ok, "no token must give a StdLogger")

	_, ok = New(std, &core.Config{RollbarToken: "tok", TestMode: true}).(*StdLogger)
	assert.True(t, ok, "test mode must never report to Rollbar")
}
