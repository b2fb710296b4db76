package logic

import (
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/blues/ams/internal/model"
)

func TestGenerateReferralCode(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPrefix string
	}{
		{name: "simple name", input: "Jane", wantPrefix: "JANE"},
		{name: "whitespace stripped", input: "Jane  Smith", wantPrefix: "JANESMITH"},
		{name: "lowercase converted", input: "motor garage", wantPrefix: "MOTORGARAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := GenerateReferralCode(tt.input)
			if !strings.HasPrefix(code, tt.wantPrefix) {
				t.Fatalf("GenerateReferralCode(%q) = %q, want prefix %q", tt.input, code, tt.wantPrefix)
			}

			suffix := strings.TrimPrefix(code, tt.wantPrefix)
			n, err := strconv.Atoi(suffix)
			if err != nil {
				t.Fatalf("GenerateReferralCode(%q) = %q, non-numeric suffix %q", tt.input, code, suffix)
			}
			if n < 0 || n >= 999 {
				t.Errorf("GenerateReferralCode(%q) suffix %d outside [0, 999)", tt.input, n)
			}
		})
	}
}

func TestBuildReferralLink(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		programType model.ProgramType
		code        string
		wantHost    string
		wantPath    string
	}{
		{
			name:        "purchase program keeps root path",
			baseURL:     "https://market.example.org",
			programType: model.ProgramTypePurchase,
			code:        "JANE42",
			wantHost:    "market.example.org",
			wantPath:    "",
		},
		{
			name:        "signup program appends signup path",
			baseURL:     "https://market.example.org",
			programType: model.ProgramTypeSignup,
			code:        "JANE42",
			wantHost:    "market.example.org",
			wantPath:    "/signup",
		},
		{
			name:        "trailing slash stripped",
			baseURL:     "https://market.example.org/",
			programType: model.ProgramTypeSignup,
			code:        "JANE42",
			wantHost:    "market.example.org",
			wantPath:    "/signup",
		},
		{
			name:        "empty base falls back to placeholder",
			baseURL:     "",
			programType: model.ProgramTypePurchase,
			code:        "JANE42",
			wantHost:    "marketplace.example.com",
			wantPath:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := BuildReferralLink(tt.baseURL, tt.programType, tt.code)

			u, err := url.Parse(link)
			if err != nil {
				t.Fatalf("BuildReferralLink() produced unparsable URL %q: %v", link, err)
			}
			if u.Host != tt.wantHost {
				t.Errorf("host = %q, want %q", u.Host, tt.wantHost)
			}
			if u.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", u.Path, tt.wantPath)
			}

			// 每个UTM参数必须恰好出现一次
			query := u.Query()
			for param, want := range map[string]string{
				"utm_source":   "affiliate",
				"utm_medium":   "referral",
				"utm_campaign": tt.code,
			} {
				values := query[param]
				if len(values) != 1 {
					t.Fatalf("param %s appears %d times, want exactly once", param, len(values))
				}
				if values[0] != want {
					t.Errorf("param %s = %q, want %q", param, values[0], want)
				}
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Jane@Example.COM", want: "jane@example.com"},
		{input: "  jane@example.com  ", want: "jane@example.com"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
