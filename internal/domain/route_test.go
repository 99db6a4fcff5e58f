package domain

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     []Segment
		wantErr  bool
	}{
		{
			name:     "root",
			template: "/",
			want:     []Segment{},
		},
		{
			name:     "literals",
			template: "/api/v1/users",
			want: []Segment{
				{SegmentLiteral, "api"}, {SegmentLiteral, "v1"}, {SegmentLiteral, "users"},
			},
		},
		{
			name:     "all segment kinds",
			template: "users/:id/:tab?/*rest",
			want: []Segment{
				{SegmentLiteral, "users"},
				{SegmentParam, "id"},
				{SegmentOptional, "tab"},
				{SegmentCatchAll, "rest"},
			},
		},
		{
			name:     "extra slashes are ignored",
			template: "//users//:id/",
			want:     []Segment{{SegmentLiteral, "users"}, {SegmentParam, "id"}},
		},
		{
			name:     "encoded literal is decoded",
			template: "/my%20files",
			want:     []Segment{{SegmentLiteral, "my files"}},
		},
		{
			name:     "catch-all not last",
			template: "/docs/*rest/edit",
			wantErr:  true,
		},
		{
			name:     "duplicate param",
			template: "/users/:id/posts/:id",
			wantErr:  true,
		},
		{
			name:     "duplicate between param and catch-all",
			template: "/users/:id/*id",
			wantErr:  true,
		},
		{
			name:     "unnamed param",
			template: "/users/:",
			wantErr:  true,
		},
		{
			name:     "unnamed catch-all",
			template: "/files/*",
			wantErr:  true,
		},
		{
			name:     "invalid param name",
			template: "/users/:user-id",
			wantErr:  true,
		},
		{
			name:     "too many segments",
			template: strings.Repeat("/a", MaxSegments+1),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTemplate(tt.template)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTemplate) {
					t.Errorf("ParseTemplate() error = %v, want ErrInvalidTemplate", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTemplate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentString(t *testing.T) {
	segments := []Segment{
		{SegmentLiteral, "users"},
		{SegmentParam, "id"},
		{SegmentOptional, "tab"},
		{SegmentCatchAll, "rest"},
	}
	want := []string{"users", ":id", ":tab?", "*rest"}

	for i, segment := range segments {
		if got := segment.String(); got != want[i] {
			t.Errorf("Segment.String() = %q, want %q", got, want[i])
		}
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"root path", "/", []string{}},
		{"empty path", "", []string{}},
		{"simple path", "/users", []string{"users"}},
		{"path with multiple segments", "/api/v1/users", []string{"api", "v1", "users"}},
		{"path with trailing slash", "/users/", []string{"users"}},
		{"repeated slashes", "//api///users", []string{"api", "users"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitPath(tt.path)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitPath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJoinTemplate(t *testing.T) {
	tests := []struct {
		basePath string
		template string
		want     string
	}{
		{"", "users/:id", "/users/:id"},
		{"", "/users/:id", "/users/:id"},
		{"/app", "users", "/app/users"},
		{"/app/", "/users", "/app/users"},
		{"/app", "", "/app/"},
	}

	for _, tt := range tests {
		if got := JoinTemplate(tt.basePath, tt.template); got != tt.want {
			t.Errorf("JoinTemplate(%q, %q) = %q, want %q", tt.basePath, tt.template, got, tt.want)
		}
	}
}
