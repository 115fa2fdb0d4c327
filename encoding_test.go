package main

import "testing"

func TestDecodeDDLText(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"plain ascii", []byte("CREATE TABLE t (id int);"), "CREATE TABLE t (id int);"},
		{"valid utf8 passes through", []byte("-- 회원 테이블\n"), "-- 회원 테이블\n"},
		// EUC-KR bytes for 한글
		{"euc-kr", []byte{0xC7, 0xD1, 0xB1, 0xDB}, "한글"},
		// 0xE9 is é in Latin-1 and an incomplete EUC-KR sequence
		{"latin-1 fallback", []byte{'c', 'a', 'f', 0xE9}, "café"},
	}
	for _, tt := range tests {
		if got := decodeDDLText(tt.raw); got != tt.want {
			t.Errorf("%s: decodeDDLText = %q, want %q", tt.name, got, tt.want)
		}
	}
}
