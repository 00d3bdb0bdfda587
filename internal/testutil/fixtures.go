package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/orbit/internal/domain"
)

var testIDCounter atomic.Int64

// FixedTime is the clock reading every test mutator starts from.
var FixedTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// NewTestMutator returns a Mutator with a frozen clock and sequential ids
// (prefix-01, prefix-02, ...).
func NewTestMutator(prefix string) *domain.Mutator {
	var n int
	return domain.NewMutator(
		domain.WithClock(func() time.Time { return FixedTime }),
		domain.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("%s-%02d", prefix, n)
		}),
	)
}

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, testIDCounter.Add(1))
}

// Campaign options
type CampaignOption func(*domain.Campaign)

func WithCampaignID(id string) CampaignOption {
	return func(c *domain.Campaign) {
		c.ID = id
	}
}

func WithMission(current, previous string) CampaignOption {
	return func(c *domain.Campaign) {
		c.CurrentMission = current
		c.PreviousMission = previous
	}
}

func WithPosition(x, y float64) CampaignOption {
	return func(c *domain.Campaign) {
		c.X, c.Y = &x, &y
	}
}

func WithColor(color string) CampaignOption {
	return func(c *domain.Campaign) {
		c.Color = color
	}
}

func NewTestCampaign(name string, opts ...CampaignOption) domain.Campaign {
	c := domain.Campaign{
		ID:    nextID("camp"),
		Name:  name,
		Color: domain.Palette[0],
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ID = id
	}
}

func WithLink(link string, linkType domain.LinkType) ProjectOption {
	return func(p *domain.Project) {
		p.Link = link
		p.LinkType = linkType
	}
}

func Physical() ProjectOption {
	return func(p *domain.Project) {
		p.Mode = domain.ModePhysical
		p.Link = ""
	}
}

func NewTestProject(name string, campaignIDs []string, opts ...ProjectOption) domain.Project {
	p := domain.Project{
		ID:          nextID("proj"),
		Name:        name,
		Mode:        domain.ModeLaunchable,
		LinkType:    domain.LinkWeb,
		Link:        "https://example.com/" + name,
		CampaignIDs: append([]string(nil), campaignIDs...),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// NewTestBoard assembles a snapshot and runs it through normalization so the
// result satisfies every board invariant.
func NewTestBoard(campaigns []domain.Campaign, projects []domain.Project) *domain.State {
	return domain.Normalize(&domain.State{
		Campaigns: campaigns,
		Projects:  projects,
		UpdatedAt: FixedTime.UnixMilli(),
	})
}
