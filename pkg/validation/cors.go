// Package validation 설정값처럼 외부에서 들어오는 문자열의 형식을 검사합니다.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// CORSOrigin origin이 'scheme://host[:port]' 형식의 CORS Origin인지 검사합니다. '*'는 모든 출처를 뜻합니다.
//
// scheme은 http, https만 허용되며 경로, 쿼리, Fragment, 사용자 정보, 끝의 '/'는 허용하지 않습니다.
func CORSOrigin(origin string) error {
	origin = strings.TrimSpace(origin)
	switch origin {
	case "*":
		return nil
	case "":
		return fmt.Errorf("CORS Origin이 비어 있습니다")
	}

	if strings.HasSuffix(origin, "/") {
		return fmt.Errorf("CORS Origin은 '/'로 끝날 수 없습니다: %q", origin)
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("CORS Origin을 URL로 해석할 수 없습니다: %q: %w", origin, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CORS Origin의 scheme은 http 또는 https여야 합니다: %q", origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return fmt.Errorf("CORS Origin에는 scheme, host, port 외의 요소를 넣을 수 없습니다: %q", origin)
	}

	if p := u.Port(); p != "" {
		if port, err := strconv.Atoi(p); err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("CORS Origin의 포트가 올바르지 않습니다: %q", origin)
		}
	}

	if err := Hostname(u.Hostname()); err != nil {
		return fmt.Errorf("CORS Origin의 호스트가 올바르지 않습니다: %w", err)
	}

	return nil
}

// Hostname host가 localhost, IP 주소, 또는 RFC 1123 호스트명인지 검사합니다.
func Hostname(host string) error {
	if host == "" {
		return fmt.Errorf("호스트가 비어 있습니다")
	}
	if host == "localhost" || net.ParseIP(host) != nil {
		return nil
	}
	if len(host) > 253 {
		return fmt.Errorf("호스트명은 253자를 넘을 수 없습니다: %d자", len(host))
	}

	labels := strings.Split(host, ".")
	for _, label := range labels {
		if err := hostnameLabel(label); err != nil {
			return fmt.Errorf("%w (host=%q)", err, host)
		}
	}

	// 마지막 레이블(TLD)은 숫자로만 구성될 수 없음
	if strings.Trim(labels[len(labels)-1], "0123456789") == "" {
		return fmt.Errorf("최상위 도메인은 숫자로만 구성될 수 없습니다: %q", host)
	}

	return nil
}

func hostnameLabel(label string) error {
	if len(label) == 0 || len(label) > 63 {
		return fmt.Errorf("레이블 길이는 1~63자여야 합니다: %q", label)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("레이블은 '-'로 시작하거나 끝날 수 없습니다: %q", label)
	}
	for _, r := range label {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
			return fmt.Errorf("레이블에 허용되지 않는 문자가 있습니다: %q", r)
		}
	}
	return nil
}
