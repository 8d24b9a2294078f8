package packages

import (
	"reflect"
	"testing"
)

func TestRenderArgs(t *testing.T) {
	defs := []LaunchOption{
		{Name: "host", Kind: OptionString, Default: "127.0.0.1", Flags: []string{"--listen {value}"}},
		{Name: "port", Kind: OptionInt, Default: "8188", Flags: []string{"--port {value}"}},
		{Name: "auto-launch", Kind: OptionBool, Default: "false", Flags: []string{"--auto-launch", "--disable-auto-launch"}},
		{Name: "api", Kind: OptionBool, Default: "false", Flags: []string{"--api"}},
		{Name: "output-dir", Kind: OptionPath, Flags: []string{"--output-directory {value}"}},
	}

	tests := []struct {
		name   string
		values map[string]string
		want   []string
	}{
		{
			name:   "defaults only",
			values: nil,
			want:   []string{"--listen", "127.0.0.1", "--port", "8188", "--disable-auto-launch"},
		},
		{
			name:   "value interpolation",
			values: map[string]string{"host": "0.0.0.0", "port": "9000"},
			want:   []string{"--listen", "0.0.0.0", "--port", "9000", "--disable-auto-launch"},
		},
		{
			name:   "bool true picks first template",
			values: map[string]string{"auto-launch": "true"},
			want:   []string{"--listen", "127.0.0.1", "--port", "8188", "--auto-launch"},
		},
		{
			name:   "single-template bool emits nothing when false",
			values: map[string]string{"api": "false"},
			want:   []string{"--listen", "127.0.0.1", "--port", "8188", "--disable-auto-launch"},
		},
		{
			name:   "single-template bool emits flag when true",
			values: map[string]string{"api": "true"},
			want:   []string{"--listen", "127.0.0.1", "--port", "8188", "--disable-auto-launch", "--api"},
		},
		{
			name:   "path with spaces stays one token",
			values: map[string]string{"output-dir": "/data/my outputs"},
			want:   []string{"--listen", "127.0.0.1", "--port", "8188", "--disable-auto-launch", "--output-directory", "/data/my outputs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderArgs(defs, tt.values)
			if err != nil {
				t.Fatalf("RenderArgs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RenderArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderArgsUnknownOption(t *testing.T) {
	defs := []LaunchOption{{Name: "port", Kind: OptionInt, Flags: []string{"--port {value}"}}}
	if _, err := RenderArgs(defs, map[string]string{"prot": "8080"}); err == nil {
		t.Error("expected error for unknown option name")
	}
}

func TestRenderArgsInvalidInt(t *testing.T) {
	defs := []LaunchOption{{Name: "port", Kind: OptionInt, Flags: []string{"--port {value}"}}}
	if _, err := RenderArgs(defs, map[string]string{"port": "eight"}); err == nil {
		t.Error("expected error for non-numeric int option")
	}
}

func TestRenderArgsInvalidBool(t *testing.T) {
	defs := []LaunchOption{{Name: "api", Kind: OptionBool, Flags: []string{"--api"}}}
	if _, err := RenderArgs(defs, map[string]string{"api": "yes please"}); err == nil {
		t.Error("expected error for unparseable bool option")
	}
}

func TestRenderArgsValueWithoutPlaceholderAppends(t *testing.T) {
	defs := []LaunchOption{{Name: "preset", Kind: OptionString, Flags: []string{"--preset"}}}
	got, err := RenderArgs(defs, map[string]string{"preset": "realistic"})
	if err != nil {
		t.Fatalf("RenderArgs() error = %v", err)
	}
	want := []string{"--preset", "realistic"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RenderArgs() = %v, want %v", got, want)
	}
}

func TestOptionValue(t *testing.T) {
	defs := []LaunchOption{{Name: "port", Kind: OptionInt, Default: "7801", Flags: []string{"--port {value}"}}}

	if got := OptionValue(defs, nil, "port"); got != "7801" {
		t.Errorf("OptionValue() default = %q, want %q", got, "7801")
	}
	if got := OptionValue(defs, map[string]string{"port": "9000"}, "port"); got != "9000" {
		t.Errorf("OptionValue() override = %q, want %q", got, "9000")
	}
	if got := OptionValue(defs, nil, "missing"); got != "" {
		t.Errorf("OptionValue() unknown = %q, want empty", got)
	}
}
