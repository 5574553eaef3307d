package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "session",
			objectType:  "result",
			identifier:  "12345",
			paramsKey:   nil,
			expectedKey: "lexibot:session:result:12345",
		},
		{
			name:        "with one paramsKey",
			serviceName: "session",
			objectType:  "result",
			identifier:  "12345",
			paramsKey:   []string{"take a break"},
			expectedKey: "lexibot:session:result:12345:take a break",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "quiz",
			objectType:  "state",
			identifier:  "12345",
			paramsKey:   []string{"word", "v2"},
			expectedKey: "lexibot:quiz:state:12345:word_v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}
