package http

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"slices"
	"strings"
)

// URLBuilder 链式构建请求 URL
type URLBuilder struct {
	scheme string
	host   string
	port   string
	path   strings.Builder
	query  url.Values
}

// NewURLBuilder 创建新的URL构建器实例
func NewURLBuilder() *URLBuilder {
	return &URLBuilder{
		query: make(url.Values),
	}
}

// Scheme 设置URL协议
func (b *URLBuilder) Scheme(scheme string) *URLBuilder {
	b.scheme = scheme
	return b
}

// Host 设置主机地址
func (b *URLBuilder) Host(host string) *URLBuilder {
	b.host = host
	return b
}

// Port 设置端口号，空字符串和 "0" 表示不指定
func (b *URLBuilder) Port(port string) *URLBuilder {
	if port != "" && port != "0" {
		b.port = port
	}
	return b
}

// Path 设置完整路径，会覆盖之前的路径
func (b *URLBuilder) Path(p string) *URLBuilder {
	if p != "" {
		b.path.Reset()
		b.path.WriteString(p)
	}
	return b
}

// AppendPath 追加路径段，忽略空段
func (b *URLBuilder) AppendPath(segments ...string) *URLBuilder {
	parts := make([]string, 0, len(segments)+1)
	if current := b.path.String(); current != "" {
		parts = append(parts, current)
	}
	for _, segment := range segments {
		if segment != "" {
			parts = append(parts, segment)
		}
	}

	if len(parts) > 0 {
		b.path.Reset()
		b.path.WriteString(path.Join(parts...))
	}
	return b
}

// Query 添加单个查询参数
func (b *URLBuilder) Query(key, value string) *URLBuilder {
	b.query.Add(key, value)
	return b
}

// Build 构建最终的URL字符串
func (b *URLBuilder) Build() (string, error) {
	if b.scheme == "" || b.host == "" {
		return "", fmt.Errorf("incomplete url: scheme=%q host=%q", b.scheme, b.host)
	}

	u := &url.URL{
		Scheme: b.scheme,
		Host:   b.buildHost(),
		Path:   b.path.String(),
	}
	if len(b.query) > 0 {
		u.RawQuery = b.query.Encode()
	}

	return u.String(), nil
}

// String 实现fmt.Stringer接口
func (b *URLBuilder) String() string {
	result, _ := b.Build()
	return result
}

// Clone 深拷贝构建器，用于从同一个基础地址派生多个请求
func (b *URLBuilder) Clone() *URLBuilder {
	c := &URLBuilder{
		scheme: b.scheme,
		host:   b.host,
		port:   b.port,
		query:  make(url.Values, len(b.query)),
	}
	c.path.WriteString(b.path.String())
	for k, v := range b.query {
		c.query[k] = slices.Clone(v)
	}
	return c
}

func (b *URLBuilder) buildHost() string {
	if b.port != "" {
		return net.JoinHostPort(b.host, b.port)
	}
	if strings.Contains(b.host, ":") {
		return "[" + b.host + "]"
	}
	return b.host
}

// FromURL 从现有URL字符串创建构建器
func FromURL(rawURL string) (*URLBuilder, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse url %q: scheme and host are required", rawURL)
	}

	b := &URLBuilder{
		scheme: u.Scheme,
		host:   u.Hostname(),
		port:   u.Port(),
		query:  u.Query(),
	}
	b.path.WriteString(u.Path)
	return b, nil
}
