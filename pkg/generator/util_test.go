package generator

import "testing"

func TestIsSafeURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"パブリックIP", "https://93.184.216.34/favicon.ico", false},

		{"不正なスキーム", "gopher://93.184.216.34", true},
		{"GCSスキームはHTTP経路では不許可", "gs://my-bucket/path/to/image.png", true},
		{"ループバック", "http://127.0.0.1/admin", true},
		{"プライベートIP (クラスA)", "http://10.255.255.254/metadata", true},
		{"リンクローカル", "http://169.254.169.254/latest/meta-data", true},
		{"IPv6ループバック", "http://[::1]/", true},
		{"パース不能", "::not a url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			safe, err := IsSafeURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsSafeURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !safe {
				t.Errorf("%s: safe URL was flagged as unsafe", tt.url)
			}
			if tt.wantErr && safe {
				t.Errorf("%s: unsafe URL was flagged as safe", tt.url)
			}
		})
	}
}
