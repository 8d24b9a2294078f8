package cli

import (
	"reflect"
	"testing"
)

func TestParseLaunchArgs(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: nil},
		{
			name:  "pairs",
			pairs: []string{"host=0.0.0.0", "port=9000"},
			want:  map[string]string{"host": "0.0.0.0", "port": "9000"},
		},
		{
			name:  "value containing equals",
			pairs: []string{"preset=name=value"},
			want:  map[string]string{"preset": "name=value"},
		},
		{name: "missing equals", pairs: []string{"host"}, wantErr: true},
		{name: "empty name", pairs: []string{"=x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLaunchArgs(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLaunchArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseLaunchArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}
