package orchestrator

import (
	"context"
	"regexp"

	"atlas/internal/model"

	"go.uber.org/zap"
)

var gitURLRe = regexp.MustCompile(`^((git|ssh|https?)|(git@[\w.]+))(:(//)?)([\w.@:/\-~]+)(\.git)(/)?$`)

func validateCode(c *model.Code) error {
	switch {
	case !c.CodeType.Valid():
		return invalid("code_type %q", c.CodeType)
	case len(c.Name) < 3:
		return invalid("name must be at least 3 characters")
	case c.Version == "":
		return invalid("version is required")
	case !gitURLRe.MatchString(c.GitURL):
		return invalid("git_url %q", c.GitURL)
	case c.CommitHash == "":
		return invalid("commit_hash is required")
	}
	for _, dep := range c.Dependencies {
		if dep == c.Id && c.Id != 0 {
			return &DependencyError{Cycle: []int64{dep, dep}}
		}
	}
	return nil
}

// CreateCode 写入 code；is_current 时在同一事务中降级同名同类型的其它 current 记录
func (o *Orchestrator) CreateCode(ctx context.Context, c *model.Code) error {
	if err := validateCode(c); err != nil {
		return err
	}
	existing, err := o.codes.GetByIdentity(ctx, c.Name, c.Version, c.CodeType)
	if err != nil {
		return err
	}
	if existing != nil {
		return conflict("code", existing.Id, "%s %s-%s already exists", c.CodeType, c.Name, c.Version)
	}
	if err := o.resolver.Check(ctx, c); err != nil {
		return err
	}

	c.Creator = actorOf(ctx)
	c.Modifier = c.Creator
	var demoted []int64
	err = o.tm.Transaction(ctx, func(ctx context.Context) error {
		current := c.IsCurrent
		c.IsCurrent = false
		if err := o.codes.Create(ctx, c); err != nil {
			return err
		}
		if !current {
			return nil
		}
		var err error
		demoted, err = o.codes.MarkCurrent(ctx, c)
		return err
	})
	if err != nil {
		return err
	}
	if len(demoted) > 0 {
		o.logger.WithContext(ctx).Info("code demoted",
			zap.Int64("code_id", c.Id), zap.Int64s("demoted", demoted))
	}
	return o.publish(ctx, &CodeEvent{Action: ActionCreated, Code: c})
}

// UpdateCode c 为合并了修改后的完整记录
func (o *Orchestrator) UpdateCode(ctx context.Context, c *model.Code) error {
	orig, err := o.codes.GetByID(ctx, c.Id)
	if err != nil {
		return err
	}
	if orig == nil {
		return ErrNotFound
	}
	if err := validateCode(c); err != nil {
		return err
	}
	if c.Name != orig.Name || c.Version != orig.Version || c.CodeType != orig.CodeType {
		other, err := o.codes.GetByIdentity(ctx, c.Name, c.Version, c.CodeType)
		if err != nil {
			return err
		}
		if other != nil && other.Id != c.Id {
			return conflict("code", other.Id, "%s %s-%s already exists", c.CodeType, c.Name, c.Version)
		}
	}
	if err := o.resolver.Check(ctx, c); err != nil {
		return err
	}

	c.Creator, c.CreateTime = orig.Creator, orig.CreateTime
	c.Modifier = actorOf(ctx)
	err = o.tm.Transaction(ctx, func(ctx context.Context) error {
		current := c.IsCurrent
		c.IsCurrent = orig.IsCurrent && current
		if err := o.codes.Update(ctx, c); err != nil {
			return err
		}
		if !current {
			return nil
		}
		_, err := o.codes.MarkCurrent(ctx, c)
		return err
	})
	if err != nil {
		return err
	}
	return o.publish(ctx, &CodeEvent{Action: ActionUpdated, Code: c, Original: orig})
}

// DeleteCode 被实例引用或被其它 code 声明为依赖时拒绝
func (o *Orchestrator) DeleteCode(ctx context.Context, id int64) error {
	c, err := o.codes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	if err := o.CheckCodeUnused(ctx, c); err != nil {
		return err
	}
	if err := o.codes.Delete(ctx, id); err != nil {
		return err
	}
	return o.publish(ctx, &CodeEvent{Action: ActionDeleted, Code: c})
}

func (o *Orchestrator) CheckCodeUnused(ctx context.Context, c *model.Code) error {
	insts, err := o.instances.ListReferencingCode(ctx, c.Id)
	if err != nil {
		return err
	}
	if len(insts) > 0 {
		sids := make([]string, 0, len(insts))
		for _, inst := range insts {
			sids = append(sids, inst.Sid)
		}
		return conflict("code", c.Id, "in use by instances %v", sids)
	}
	dependents, err := o.codes.ListDependents(ctx, c.Id)
	if err != nil {
		return err
	}
	if len(dependents) > 0 {
		ids := make([]int64, 0, len(dependents))
		for _, d := range dependents {
			ids = append(ids, d.Id)
		}
		return conflict("code", c.Id, "declared as a dependency by code %v", ids)
	}
	return nil
}
