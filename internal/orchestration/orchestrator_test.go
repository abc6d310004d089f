package orchestration

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/gvpc/internal/config"
	"github.com/imamik/gvpc/internal/platform/ec2"
	fixtures "github.com/imamik/gvpc/internal/testing"
	"github.com/imamik/gvpc/internal/util/async"
)

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		NetworkAvailable:  time.Second,
		PeeringVisible:    time.Second,
		RetryMaxAttempts:  1,
		RetryInitialDelay: time.Millisecond,
	}
}

func newOrchestrator(p ec2.Provider, cfg *config.Config, opts ...Option) *Orchestrator {
	opts = append([]Option{WithTimeouts(testTimeouts()), WithRunID("run-test")}, opts...)
	return New(p, cfg, opts...)
}

// peeringRoutes returns the sorted destinations added via peering per route table.
func peeringRoutes(m *ec2.MockClient) map[string][]string {
	out := make(map[string][]string)
	for _, c := range m.CallsTo("CreateRoute") {
		if c.Args[1] == "0.0.0.0/0" {
			continue
		}
		out[c.Args[0]] = append(out[c.Args[0]], c.Args[1])
	}
	for _, dests := range out {
		slices.Sort(dests)
	}
	return out
}

var _ = Describe("Orchestrator", func() {
	var (
		ctx  context.Context
		mock *ec2.MockClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = fixtures.NewMeshFixture().Healthy()
	})

	Context("with three regions", func() {
		var report *RunReport

		BeforeEach(func() {
			var err error
			report, err = newOrchestrator(mock, nil).Run(ctx, []string{"us-east-1", "eu-west-1", "ap-south-1"}, true)
			Expect(err).NotTo(HaveOccurred())
		})

		It("builds one VPC per region at its sorted offset", func() {
			Expect(report.Regions).To(HaveLen(3))
			Expect(report.Regions[0].Region).To(Equal("ap-south-1"))
			Expect(report.Regions[0].CIDR).To(Equal("10.101.0.0/16"))
			Expect(report.Regions[1].Region).To(Equal("eu-west-1"))
			Expect(report.Regions[1].CIDR).To(Equal("10.105.0.0/16"))
			Expect(report.Regions[2].Region).To(Equal("us-east-1"))
			Expect(report.Regions[2].CIDR).To(Equal("10.109.0.0/16"))

			for _, r := range report.Regions {
				Expect(r.Status).To(Equal(StatusSucceeded))
				Expect(r.Subnets).To(Equal(8))
			}
			Expect(mock.CallCount("CreateNetwork")).To(Equal(3))
			Expect(mock.CallCount("CreateSubnet")).To(Equal(24))
		})

		It("peers every unordered pair exactly once", func() {
			var pairs []string
			for _, p := range report.Pairs {
				Expect(p.Status).To(Equal(StatusSucceeded))
				pairs = append(pairs, p.Requester+"/"+p.Accepter)
			}
			Expect(pairs).To(ConsistOf(
				"ap-south-1/eu-west-1",
				"ap-south-1/us-east-1",
				"eu-west-1/us-east-1",
			))
			Expect(mock.CallCount("RequestPeering")).To(Equal(3))
			Expect(mock.CallCount("AcceptPeering")).To(Equal(3))
		})

		It("adds one route per peer to every route table", func() {
			Expect(peeringRoutes(mock)).To(Equal(map[string][]string{
				"rtb-vpc-ap-south-1": {"10.105.0.0/16", "10.109.0.0/16"},
				"rtb-vpc-eu-west-1":  {"10.101.0.0/16", "10.109.0.0/16"},
				"rtb-vpc-us-east-1":  {"10.101.0.0/16", "10.105.0.0/16"},
			}))
		})

		It("creates every subnet before the first peering request", func() {
			lastSubnet, firstPeering := -1, -1
			for i, c := range mock.Calls() {
				switch c.Operation {
				case "CreateSubnet":
					lastSubnet = i
				case "RequestPeering":
					if firstPeering < 0 {
						firstPeering = i
					}
				}
			}
			Expect(firstPeering).To(BeNumerically(">", lastSubnet))
		})

		It("reports a clean run", func() {
			Expect(report.RunID).To(Equal("run-test"))
			Expect(report.Proceeded).To(BeTrue())
			Expect(report.Clean()).To(BeTrue())
			Expect(report.FinishedAt).NotTo(BeTemporally("<", report.StartedAt))
		})
	})

	Context("when the user declines", func() {
		It("makes no provider call in Run", func() {
			report, err := newOrchestrator(mock, nil).Run(ctx, []string{"eu-west-1", "us-east-1"}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Proceeded).To(BeFalse())
			Expect(report.Regions).To(BeEmpty())
			Expect(mock.Calls()).To(BeEmpty())
		})

		It("makes no provider call in RunWithDiscovery", func() {
			report, err := newOrchestrator(mock, nil).RunWithDiscovery(ctx, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Proceeded).To(BeFalse())
			Expect(mock.Calls()).To(BeEmpty())
		})
	})

	Context("with discovery", func() {
		It("runs over the listed regions", func() {
			mock.ListRegionsFunc = func(context.Context) ([]string, error) {
				return []string{"us-west-2", "eu-central-1"}, nil
			}
			report, err := newOrchestrator(mock, nil).RunWithDiscovery(ctx, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Regions).To(HaveLen(2))
			Expect(report.Pairs).To(HaveLen(1))
		})

		It("returns the listing error and dispatches nothing", func() {
			mock.ListRegionsFunc = func(context.Context) ([]string, error) {
				return nil, errors.New("access denied")
			}
			report, err := newOrchestrator(mock, nil).RunWithDiscovery(ctx, true)
			Expect(err).To(MatchError(ContainSubstring("access denied")))
			Expect(report).To(BeNil())
			Expect(mock.CallCount("CreateNetwork")).To(BeZero())
		})
	})

	Context("when one region fails", func() {
		It("peers only the remaining regions", func() {
			mock.CreateNetworkFunc = func(_ context.Context, region, _ string, _ map[string]string) (string, error) {
				if region == "eu-west-1" {
					return "", errors.New("VpcLimitExceeded")
				}
				return "vpc-" + region, nil
			}

			report, err := newOrchestrator(mock, nil).Run(ctx, []string{"us-east-1", "eu-west-1", "ap-south-1"}, true)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.RegionCounts()).To(Equal(Counts{Succeeded: 2, Failed: 1}))
			Expect(report.Regions[1].Errors).To(ContainElement(ContainSubstring("VpcLimitExceeded")))
			Expect(report.Pairs).To(HaveLen(1))
			Expect(report.Pairs[0].Requester).To(Equal("ap-south-1"))
			Expect(report.Pairs[0].Accepter).To(Equal("us-east-1"))
			Expect(report.Clean()).To(BeFalse())
		})

		It("recovers a panicking build", func() {
			mock.CreateNetworkFunc = func(_ context.Context, region, _ string, _ map[string]string) (string, error) {
				if region == "us-east-1" {
					panic("nil pointer")
				}
				return "vpc-" + region, nil
			}

			report, err := newOrchestrator(mock, nil).Run(ctx, []string{"us-east-1", "eu-west-1", "ap-south-1"}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Regions[2].Region).To(Equal("us-east-1"))
			Expect(report.Regions[2].Status).To(Equal(StatusFailed))
			Expect(report.Regions[2].Errors).To(ContainElement(ContainSubstring(async.ErrPanic.Error())))
			Expect(report.Pairs).To(HaveLen(1))
		})
	})

	Context("when a region is partially built", func() {
		BeforeEach(func() {
			mock.ListAvailabilityZonesFunc = func(_ context.Context, region string) ([]ec2.Zone, error) {
				if region == "eu-west-1" {
					return nil, errors.New("throttled")
				}
				return []ec2.Zone{{Name: region + "a", ID: region + "-az1"}}, nil
			}
		})

		It("peers it by default", func() {
			report, err := newOrchestrator(mock, nil).Run(ctx, []string{"us-east-1", "eu-west-1"}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.RegionCounts()).To(Equal(Counts{Succeeded: 1, Partial: 1}))
			Expect(report.Pairs).To(HaveLen(1))
			Expect(report.Unpeered).To(BeEmpty())
		})

		It("keeps it out of the mesh when configured", func() {
			cfg := fixtures.NewConfigBuilder().WithPeerPartial(false).Build()

			report, err := newOrchestrator(mock, cfg).Run(ctx, []string{"us-east-1", "eu-west-1", "ap-south-1"}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Unpeered).To(Equal([]string{"eu-west-1"}))
			Expect(report.Pairs).To(HaveLen(1))
			Expect(mock.CallsTo("RequestPeering")[0].Args[:2]).To(Equal([]string{"vpc-ap-south-1", "vpc-us-east-1"}))
		})
	})

	Context("with region filters", func() {
		regions := []string{"us-east-1", "eu-west-1", "ap-south-1", "sa-east-1"}

		It("applies the include list", func() {
			cfg := fixtures.NewConfigBuilder().WithInclude("us-east-1", "ap-south-1").Build()

			report, err := newOrchestrator(mock, cfg).Run(ctx, regions, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Regions).To(HaveLen(2))
			Expect(report.Regions[0].Region).To(Equal("ap-south-1"))
			Expect(report.Regions[1].Region).To(Equal("us-east-1"))
			Expect(report.Regions[1].CIDR).To(Equal("10.105.0.0/16"))
		})

		It("applies the exclude list", func() {
			cfg := fixtures.NewConfigBuilder().WithExclude("eu-west-1", "sa-east-1").Build()

			report, err := newOrchestrator(mock, cfg).Run(ctx, regions, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Regions).To(HaveLen(2))
			Expect(report.Regions[0].Region).To(Equal("ap-south-1"))
			Expect(report.Regions[1].Region).To(Equal("us-east-1"))
		})

		It("rejects a region that is both included and excluded", func() {
			Expect(func() {
				fixtures.NewConfigBuilder().WithInclude("eu-west-1").WithExclude("eu-west-1").Build()
			}).To(PanicWith(ContainSubstring("both included and excluded")))
		})
	})

	Context("with more regions than the address plan holds", func() {
		It("skips the overflow", func() {
			regions := make([]string, 41)
			for i := range regions {
				regions[i] = fmt.Sprintf("region-%02d", i)
			}
			mock = &ec2.MockClient{}

			report, err := newOrchestrator(mock, nil).Run(ctx, regions, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Regions).To(HaveLen(39))
			Expect(report.Skipped).To(Equal([]string{"region-39", "region-40"}))
			Expect(report.Regions[38].CIDR).To(Equal("10.253.0.0/16"))
			Expect(report.Clean()).To(BeFalse())
		})
	})

	Context("with a single region", func() {
		It("builds without peering", func() {
			report, err := newOrchestrator(mock, nil).Run(ctx, []string{"eu-west-1"}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Regions).To(HaveLen(1))
			Expect(report.Pairs).To(BeEmpty())
			Expect(mock.CallCount("RequestPeering")).To(BeZero())
		})
	})

	Context("with metrics", func() {
		It("counts provider calls per operation", func() {
			m := NewMetrics()
			_, err := newOrchestrator(mock, nil, WithMetrics(m)).Run(ctx, []string{"eu-west-1", "us-east-1"}, true)
			Expect(err).NotTo(HaveOccurred())

			Expect(counterValue(m.providerCalls.WithLabelValues("CreateNetwork", "success"))).To(Equal(2.0))
			Expect(counterValue(m.providerCalls.WithLabelValues("RequestPeering", "success"))).To(Equal(1.0))
			Expect(counterValue(m.regionBuilds.WithLabelValues(StatusSucceeded))).To(Equal(2.0))
			Expect(counterValue(m.peerings.WithLabelValues(StatusSucceeded))).To(Equal(1.0))
		})
	})

	It("generates a run ID when none is given", func() {
		a := New(mock, nil)
		b := New(mock, nil)
		Expect(a.RunID()).NotTo(BeEmpty())
		Expect(a.RunID()).NotTo(Equal(b.RunID()))
	})
})
