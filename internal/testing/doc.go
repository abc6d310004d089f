// Package testing provides test builders and fixtures shared by the
// orchestration and CLI tests.
//
//   - ConfigBuilder: fluent builder for run configurations
//   - MeshFixture: pre-configured ec2.MockClient for mesh scenarios
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithExclude("me-south-1").
//	    WithPeerPartial(false).
//	    Build()
//
//	mock := testing.NewMeshFixture().
//	    WithRegions("us-east-1", "eu-west-1").
//	    Healthy()
package testing
