package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "VPC",
			got:      VPC("eu-west-1"),
			expected: "vpc-eu-west-1-gvpc",
		},
		{
			name:     "InternetGateway",
			got:      InternetGateway("eu-west-1"),
			expected: "igw-eu-west-1-gvpc",
		},
		{
			name:     "RouteTable",
			got:      RouteTable("us-east-2"),
			expected: "rtb-us-east-2-gvpc",
		},
		{
			name:     "Subnet public",
			got:      Subnet("use1-az1", "public"),
			expected: "subnet-use1-az1-pub-gvpc",
		},
		{
			name:     "Subnet private",
			got:      Subnet("use1-az1", "private"),
			expected: "subnet-use1-az1-pri-gvpc",
		},
		{
			name:     "Subnet short tier",
			got:      Subnet("use1-az2", "db"),
			expected: "subnet-use1-az2-db-gvpc",
		},
		{
			name:     "Peering",
			got:      Peering("ap-south-1", "eu-west-1"),
			expected: "pcx-ap-south-1-eu-west-1-gvpc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.got)
			}
		})
	}
}
