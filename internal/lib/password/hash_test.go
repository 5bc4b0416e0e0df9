package password

import (
	"testing"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "regular password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
			wantErr:  false,
		},
		{
			name:     "long password",
			password: "verylongpasswordwithmorethanfiftycharacters",
			wantErr:  false,
		},
		{
			name:     "short password",
			password: "secret1",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetHash(tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("GetHash() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && gotHash == "" {
				t.Error("GetHash() returned empty hash")
			}

			if !tt.wantErr {
				if err = CompareHash(gotHash, tt.password); err != nil {
					t.Errorf("CompareHash() with original password failed: %v", err)
				}
			}
		})
	}
}

func TestCompareHash_WrongPassword(t *testing.T) {
	hash, err := GetHash("correct-password")
	if err != nil {
		t.Fatalf("GetHash() error = %v", err)
	}

	if err = CompareHash(hash, "wrong-password"); err == nil {
		t.Error("CompareHash() accepted wrong password")
	}
}

func TestGetHash_Salted(t *testing.T) {
	first, err := GetHash("same-password")
	if err != nil {
		t.Fatalf("GetHash() error = %v", err)
	}
	second, err := GetHash("same-password")
	if err != nil {
		t.Fatalf("GetHash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical, salt is missing")
	}
}
