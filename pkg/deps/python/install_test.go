package python

import (
	"context"
	stderrors "errors"
	"slices"
	"testing"

	"github.com/enorganic/requirements/pkg/errors"
)

type recordingRunner struct {
	calls [][]string
	fail  func(call int) bool
}

func (r *recordingRunner) Run(_ context.Context, cmd Command) ([]byte, []byte, error) {
	r.calls = append(r.calls, cmd.Args)
	if r.fail != nil && r.fail(len(r.calls)) {
		return nil, []byte("error: subprocess-exited-with-error"), stderrors.New("exit status 1")
	}
	return nil, nil, nil
}

func TestInstaller_Install(t *testing.T) {
	base := []string{"install", "--no-deps", "--no-compile", "--no-build-isolation"}

	tests := []struct {
		name      string
		installer Installer
		location  string
		fail      func(int) bool
		want      [][]string
		wantErr   bool
	}{
		{
			name: "regular",
			want: [][]string{append([]string{"python3", "-m", "pip"}, append(base, "pkg")...)},
		},
		{
			name:      "custom pip",
			installer: Installer{Pip: []string{"uv", "pip"}},
			want:      [][]string{append([]string{"uv", "pip"}, append(base, "pkg")...)},
		},
		{
			name:      "interpreter command with arguments",
			installer: Installer{Python: "py -3.12"},
			want:      [][]string{append([]string{"py", "-3.12", "-m", "pip"}, append(base, "pkg")...)},
		},
		{
			name:     "editable",
			location: "/src/pkg",
			want:     [][]string{append([]string{"python3", "-m", "pip"}, append(base, "-e", "/src/pkg")...)},
		},
		{
			name:     "editable retry forces reinstall",
			location: "/src/pkg",
			fail:     func(call int) bool { return call == 1 },
			want: [][]string{
				append([]string{"python3", "-m", "pip"}, append(base, "-e", "/src/pkg")...),
				append([]string{"python3", "-m", "pip"}, append(base, "--force-reinstall", "-e", "/src/pkg")...),
			},
		},
		{
			name:    "failure",
			fail:    func(int) bool { return true },
			want:    [][]string{append([]string{"python3", "-m", "pip"}, append(base, "pkg")...)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordingRunner{fail: tt.fail}
			inst := tt.installer
			inst.Runner = runner

			err := inst.Install(context.Background(), "pkg", tt.location)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Install() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInstallFailed) {
				t.Errorf("error code = %q, want INSTALL_FAILED", errors.GetCode(err))
			}
			if len(runner.calls) != len(tt.want) {
				t.Fatalf("calls = %q, want %q", runner.calls, tt.want)
			}
			for i := range tt.want {
				if !slices.Equal(runner.calls[i], tt.want[i]) {
					t.Errorf("call %d = %q, want %q", i, runner.calls[i], tt.want[i])
				}
			}
		})
	}
}
