package handler

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token := generateToken("alice")

	username, ok := ParseToken(token)
	if !ok {
		t.Fatal("刚签发的token应有效")
	}
	if username != "alice" {
		t.Fatalf("用户名 %q, 期望 alice", username)
	}
}

func TestTokenUsernameWithDots(t *testing.T) {
	token := generateToken("a.b.c")

	username, ok := ParseToken(token)
	if !ok {
		t.Fatal("带点号用户名的token应有效")
	}
	if username != "a.b.c" {
		t.Fatalf("用户名 %q, 期望 a.b.c", username)
	}
}

func TestTokenTampered(t *testing.T) {
	token := generateToken("alice")

	if _, ok := ParseToken("bob" + token[5:]); ok {
		t.Fatal("篡改的token不应通过")
	}
	if _, ok := ParseToken("garbage"); ok {
		t.Fatal("非法格式不应通过")
	}
	if _, ok := ParseToken(""); ok {
		t.Fatal("空token不应通过")
	}
}

func TestTokenExpired(t *testing.T) {
	// 手工拼一个8天前签发的token，签名合法但已过期
	ts := strconv.FormatInt(time.Now().Add(-8*24*time.Hour).Unix(), 10)
	payload := "alice." + ts
	token := payload + "." + sign(payload)

	if _, ok := ParseToken(token); ok {
		t.Fatal("过期token不应通过")
	}
}

func TestTickerHint(t *testing.T) {
	cases := []struct {
		symbol string
		want   string
	}{
		{"AAPL", "AAPL"},
		{" aapl ", "AAPL"},
		{"TSLA", "TSLA"},
		{"RELIANCE.NS", "NSE"},
		{"MSFT", "有效代码"},
		{"", "有效代码"},
	}
	for _, c := range cases {
		if got := TickerHint(c.symbol); !strings.Contains(got, c.want) {
			t.Errorf("TickerHint(%q) = %q, 应包含 %q", c.symbol, got, c.want)
		}
	}
}
