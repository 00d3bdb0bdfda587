package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/spf13/pflag"
)

// modeValue is a --mode flag restricted to the project modes.
type modeValue struct {
	mode *domain.Mode
}

var _ pflag.Value = (*modeValue)(nil)

func newModeValue(m *domain.Mode) *modeValue { return &modeValue{mode: m} }

func (v *modeValue) String() string { return string(*v.mode) }
func (v *modeValue) Type() string   { return "mode" }

func (v *modeValue) Set(s string) error {
	m, ok := domain.ParseMode(s)
	if !ok {
		return fmt.Errorf("must be %s or %s", domain.ModeLaunchable, domain.ModePhysical)
	}
	*v.mode = m
	return nil
}

// linkTypeValue is a --link-type flag restricted to the known link types.
type linkTypeValue struct {
	linkType *domain.LinkType
}

var _ pflag.Value = (*linkTypeValue)(nil)

func newLinkTypeValue(t *domain.LinkType) *linkTypeValue { return &linkTypeValue{linkType: t} }

func (v *linkTypeValue) String() string { return string(*v.linkType) }
func (v *linkTypeValue) Type() string   { return "link-type" }

func (v *linkTypeValue) Set(s string) error {
	t, ok := domain.ParseLinkType(s)
	if !ok {
		names := make([]string, len(domain.LinkTypes))
		for i, lt := range domain.LinkTypes {
			names[i] = string(lt)
		}
		return fmt.Errorf("must be one of %s", strings.Join(names, ", "))
	}
	*v.linkType = t
	return nil
}

// strategyValue is a --layout flag naming a registered layout strategy.
type strategyValue struct {
	strategy *layout.Strategy
}

var _ pflag.Value = (*strategyValue)(nil)

func newStrategyValue(s *layout.Strategy) *strategyValue { return &strategyValue{strategy: s} }

func (v *strategyValue) String() string {
	if *v.strategy == nil {
		return ""
	}
	return (*v.strategy).Name()
}

func (v *strategyValue) Type() string { return "layout" }

func (v *strategyValue) Set(s string) error {
	st, ok := layout.Lookup(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return fmt.Errorf("must be one of %s", strings.Join(layout.Names(), ", "))
	}
	*v.strategy = st
	return nil
}
