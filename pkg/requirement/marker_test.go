package requirement

import "testing"

func TestMarker_Evaluate(t *testing.T) {
	env := Environment{
		VarPythonVersion:     "3.11",
		VarPythonFullVersion: "3.11.4",
		VarOSName:            "posix",
		VarSysPlatform:       "linux",
		VarPlatformSystem:    "Linux",
		VarPlatformMachine:   "x86_64",
		VarImplementation:    "CPython",
		VarImplName:          "cpython",
	}

	tests := []struct {
		marker string
		want   bool
	}{
		{`python_version >= "3.8"`, true},
		{`python_version < "3.8"`, false},
		{`python_version > "3.9"`, true},
		{`python_version <= "3.11"`, true},
		{`python_version != "3.11"`, false},
		{`python_version == "3.11"`, true},
		{`python_full_version == "3.11.*"`, true},
		{`python_full_version != "3.10.*"`, true},
		{`python_full_version ~= "3.11.0"`, true},
		{`python_full_version ~= "3.10.0"`, false},
		{`python_version ~= "3.8"`, true},
		{`python_full_version >= "3.11.4rc1"`, true},
		{`python_full_version < "3.11.5a1"`, true},
		{`"3.8" <= python_version`, true},
		{`sys_platform == "linux"`, true},
		{`sys_platform == 'win32'`, false},
		{`sys.platform == "linux"`, true},
		{`os_name == "nt" or sys_platform == "linux"`, true},
		{`os_name == "nt" and sys_platform == "linux"`, false},
		{`(os_name == "nt" or os_name == "posix") and python_version >= "3"`, true},
		{`os_name == "nt" or (sys_platform == "linux" and python_version < "3")`, false},
		{`platform_machine in "x86_64 aarch64"`, true},
		{`platform_machine not in "x86_64 aarch64"`, false},
		{`"arm" in platform_machine`, false},
		{`platform_python_implementation === "CPython"`, true},
		{`implementation_name == "pypy"`, false},
		{`platform_system > "Darwin"`, false},
		{`extra == "test"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			m, err := ParseMarker(tt.marker)
			if err != nil {
				t.Fatalf("ParseMarker(%q) error: %v", tt.marker, err)
			}
			if got := m.Evaluate(env); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMarker_Errors(t *testing.T) {
	tests := []string{
		``,
		`python_version`,
		`python_version >=`,
		`python_version >= "3.8" and`,
		`(python_version >= "3.8"`,
		`python_version >= "3.8")`,
		`nonsense == "1"`,
		`python_version >= "3.8`,
		`python_version not "3.8"`,
		`python_version & "3"`,
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			if _, err := ParseMarker(raw); err == nil {
				t.Errorf("ParseMarker(%q) expected error", raw)
			}
		})
	}
}

func TestMarker_References(t *testing.T) {
	m, err := ParseMarker(`python_version < "3.11" and extra == "toml"`)
	if err != nil {
		t.Fatal(err)
	}
	if !m.References(VarExtra) {
		t.Error("References(extra) = false, want true")
	}
	if m.References(VarSysPlatform) {
		t.Error("References(sys_platform) = true, want false")
	}
}

func TestMarker_Nil(t *testing.T) {
	var m *Marker
	if !m.Evaluate(nil) {
		t.Error("nil marker should evaluate true")
	}
	if m.String() != "" {
		t.Errorf("nil marker String() = %q", m.String())
	}
}

func TestEnvironment_WithExtra(t *testing.T) {
	base := Environment{VarSysPlatform: "linux"}
	env := base.WithExtra("Dev_Tools")
	if env[VarExtra] != "dev-tools" {
		t.Errorf("extra = %q, want dev-tools", env[VarExtra])
	}
	if _, ok := base[VarExtra]; ok {
		t.Error("WithExtra mutated the receiver")
	}
}

func TestDefaultEnvironment(t *testing.T) {
	env := DefaultEnvironment()
	for _, v := range []string{VarPythonVersion, VarOSName, VarSysPlatform, VarPlatformSystem, VarImplName} {
		if env[v] == "" {
			t.Errorf("DefaultEnvironment()[%q] is empty", v)
		}
	}
}
