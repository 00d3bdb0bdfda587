package layout

import (
	"hash/fnv"
	"math"

	"github.com/alexanderramin/orbit/internal/domain"
)

const (
	clusterMinRadius = 28
	clusterMaxRadius = 64
	clusterBase      = 22
	clusterPerMember = 6
)

// ClusterRadius is the ring radius for a group of size projects sharing
// one membership set. It grows mildly with the group and is bounded.
func ClusterRadius(size int) float64 {
	r := float64(clusterBase + clusterPerMember*size)
	return math.Max(clusterMinRadius, math.Min(clusterMaxRadius, r))
}

// BaseAngle maps a membership key to a stable angle in [0, 2π).
func BaseAngle(key string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return float64(h.Sum32()) / float64(1<<32) * 2 * math.Pi
}

// Cluster places projects around the centroid of their member campaigns.
// Projects with identical membership sets form a group; a lone project sits
// exactly on the centroid, a larger group is spread on a small ring whose
// rotation is derived from the membership key. Output order follows the
// first appearance of each group, then stored project order.
func Cluster(projects []domain.Project, anchors map[string]domain.Point, vp Viewport) []ProjectSpot {
	var keys []string
	groups := make(map[string][]domain.Project)
	for _, p := range projects {
		key := p.MembershipKey()
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], p)
	}

	out := make([]ProjectSpot, 0, len(projects))
	for _, key := range keys {
		group := groups[key]
		centroid := centroidOf(group[0].CampaignIDs, anchors, vp)

		if len(group) == 1 {
			out = append(out, ProjectSpot{
				ID:    group[0].ID,
				Key:   key,
				Point: clampPoint(centroid, vp, Padding),
				Slot:  -1,
			})
			continue
		}

		radius := ClusterRadius(len(group))
		base := BaseAngle(key)
		step := 2 * math.Pi / float64(len(group))
		for j, p := range group {
			a := base + step*float64(j)
			pt := domain.Point{
				X: round2(centroid.X + radius*math.Cos(a)),
				Y: round2(centroid.Y + radius*math.Sin(a)),
			}
			out = append(out, ProjectSpot{
				ID:    p.ID,
				Key:   key,
				Point: clampPoint(pt, vp, Padding),
				Slot:  -1,
			})
		}
	}
	return out
}

// centroidOf averages the anchors of ids. Without any anchor the viewport
// centre is used.
func centroidOf(ids []string, anchors map[string]domain.Point, vp Viewport) domain.Point {
	var sum domain.Point
	n := 0
	for _, id := range ids {
		if p, ok := anchors[id]; ok {
			sum.X += p.X
			sum.Y += p.Y
			n++
		}
	}
	if n == 0 {
		return vp.Center()
	}
	return domain.Point{X: sum.X / float64(n), Y: sum.Y / float64(n)}
}
