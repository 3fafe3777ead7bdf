package http

import (
	"fmt"
	"testing"
)

func TestFromURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		expected map[string]string
	}{
		{
			name:  "完整URL",
			input: "https://core.example.com:8443/core?filter=byId",
			expected: map[string]string{
				"scheme": "https",
				"host":   "core.example.com",
				"port":   "8443",
				"path":   "/core",
			},
		},
		{
			name:  "简单URL",
			input: "http://localhost",
			expected: map[string]string{
				"scheme": "http",
				"host":   "localhost",
			},
		},
		{
			name:    "无效URL",
			input:   "://invalid",
			wantErr: true,
		},
		{
			name:    "缺少主机",
			input:   "localhost:8000",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, err := FromURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("FromURL() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if builder.scheme != tt.expected["scheme"] {
				t.Errorf("scheme = %v, want %v", builder.scheme, tt.expected["scheme"])
			}
			if builder.host != tt.expected["host"] {
				t.Errorf("host = %v, want %v", builder.host, tt.expected["host"])
			}
			if builder.port != tt.expected["port"] {
				t.Errorf("port = %v, want %v", builder.port, tt.expected["port"])
			}
			if builder.path.String() != tt.expected["path"] {
				t.Errorf("path = %v, want %v", builder.path.String(), tt.expected["path"])
			}
		})
	}
}

func TestURLBuilder_AppendPath(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		segments []string
		expected string
	}{
		{name: "空初始路径", initial: "", segments: []string{"core", "persist"}, expected: "core/persist"},
		{name: "已有路径追加", initial: "/core", segments: []string{"operation"}, expected: "/core/operation"},
		{name: "包含空段", initial: "/core", segments: []string{"", "processInstance", ""}, expected: "/core/processInstance"},
		{name: "无段追加", initial: "/core", segments: []string{}, expected: "/core"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewURLBuilder().Path(tt.initial)
			if builder.AppendPath(tt.segments...) != builder {
				t.Error("AppendPath() 应该返回同一个构建器实例")
			}
			if builder.path.String() != tt.expected {
				t.Errorf("path = %v, want %v", builder.path.String(), tt.expected)
			}
		})
	}
}

func TestURLBuilder_Build(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() *URLBuilder
		expected string
		wantErr  bool
	}{
		{
			name: "带端口和查询",
			builder: func() *URLBuilder {
				return NewURLBuilder().Scheme("http").Host("core").Port("8000").
					Path("/core").AppendPath("operation").
					Query("filter", "byEvent").Query("event", "evt.start")
			},
			expected: "http://core:8000/core/operation?event=evt.start&filter=byEvent",
		},
		{
			name: "端口为0",
			builder: func() *URLBuilder {
				return NewURLBuilder().Scheme("https").Host("core").Port("0").Path("/core")
			},
			expected: "https://core/core",
		},
		{
			name: "IPv6",
			builder: func() *URLBuilder {
				return NewURLBuilder().Scheme("http").Host("::1").Port("8000")
			},
			expected: "http://[::1]:8000",
		},
		{
			name: "缺少主机",
			builder: func() *URLBuilder {
				return NewURLBuilder().Scheme("http")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.builder().Build()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("Build() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestURLBuilder_Clone(t *testing.T) {
	base := NewURLBuilder().Scheme("http").Host("core").Port("8000").Path("/core")

	a := base.Clone().AppendPath("persist")
	b := base.Clone().AppendPath("operation").Query("filter", "byEvent")

	if got := base.String(); got != "http://core:8000/core" {
		t.Errorf("base modified: %v", got)
	}
	if got := a.String(); got != "http://core:8000/core/persist" {
		t.Errorf("a = %v", got)
	}
	if got := b.String(); got != "http://core:8000/core/operation?filter=byEvent" {
		t.Errorf("b = %v", got)
	}
}

func BenchmarkURLBuilder_Build(b *testing.B) {
	builder := NewURLBuilder().
		Scheme("http").
		Host("core").
		Port("8000").
		Path("/core/processInstance").
		Query("filter", "byId").
		Query("id", "abc")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = builder.Build()
	}
}

func ExampleURLBuilder() {
	url := NewURLBuilder().
		Scheme("http").
		Host("localhost").
		Port("8000").
		Path("/core").
		AppendPath("processInstance").
		Query("filter", "byId").
		Query("id", "abc").
		String()

	fmt.Println(url)
	// Output: http://localhost:8000/core/processInstance?filter=byId&id=abc
}
