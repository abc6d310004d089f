// Package ec2 provides the cloud network provider used by gvpc.
//
// [Provider] is the capability interface consumed by the network builder
// and the mesh connector. [RealClient] implements it on top of the AWS
// SDK for Go v2, with one lazily created EC2 client per region.
// [MockClient] implements it with overridable function fields for tests.
//
// Errors returned by [RealClient] wrap the SDK error, so callers can
// classify them with [IsThrottled], [IsNotFound], [IsAlreadyExists] and
// [IsDependencyViolation].
package ec2
