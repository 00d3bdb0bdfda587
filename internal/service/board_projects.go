package service

import (
	"context"
	"time"

	"github.com/alexanderramin/orbit/internal/domain"
)

func requireProject(s *domain.State, id string) error {
	if _, ok := s.Project(id); !ok {
		return projectNotFound(id)
	}
	return nil
}

func (b *Board) AddProject(ctx context.Context, d domain.ProjectDraft) (project *domain.Project, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": d.Name, "mode": string(d.Mode)}
	defer observe(ctx, b.observer, "add-project", startedAt, fields, &err)

	_, next, err := b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := domain.CheckProjectDraft(s, d); err != nil {
			return s, rejected(err)
		}
		return b.mut.AddProject(s, d), nil
	})
	if err != nil {
		return nil, err
	}
	p := next.Projects[len(next.Projects)-1]
	fields["project"] = p.ID
	fields["link_type"] = string(p.LinkType)
	return &p, nil
}

// UpdateProject merges patch onto a project. A patch that leaves the
// project without campaigns deletes it.
func (b *Board) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (result *UpdateProjectResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project": id}
	defer observe(ctx, b.observer, "update-project", startedAt, fields, &err)

	_, next, err := b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := requireProject(s, id); err != nil {
			return s, err
		}
		if err := domain.CheckProjectPatch(s, id, patch); err != nil {
			return s, rejected(err)
		}
		return b.mut.UpdateProject(s, id, patch), nil
	})
	if err != nil {
		return nil, err
	}

	p, ok := next.Project(id)
	if !ok {
		fields["deleted"] = true
		return &UpdateProjectResult{Deleted: true}, nil
	}
	return &UpdateProjectResult{Project: &p}, nil
}

func (b *Board) DeleteProject(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "delete-project", startedAt, map[string]any{"project": id}, &err)

	_, _, err = b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := requireProject(s, id); err != nil {
			return s, err
		}
		return b.mut.DeleteProject(s, id), nil
	})
	return err
}
