package seed

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/reference"
)

var ErrAlreadySeeded = errors.New("career framework has already been seeded")

type Store interface {
	CareerLevelsExist() (bool, error)
	ClearCareerData() error
	CreateCareerFramework(levels []*domain.CareerLevel, areas []*domain.CompetencyAreaDetail) error
	CreateSkills(skills []*domain.Skill) error
	CountCompetencies() (int, error)
	CreateCompetency(competency *domain.Competency) error
}

type Loader interface {
	LoadCareerFramework() (*reference.CareerFramework, error)
	LoadTechMasterData() (*reference.TechMasterData, error)
	LoadSkillsets() (*reference.Skillsets, error)
}

type Seeder struct {
	store  Store
	loader Loader
}

func NewSeeder(store Store, loader Loader) *Seeder {
	return &Seeder{
		store:  store,
		loader: loader,
	}
}

// SeedReferenceData 写入职业框架和技能目录。
// 已经写入过时返回 ErrAlreadySeeded，force 为 true 时先清空再写入。
func (s *Seeder) SeedReferenceData(force bool) error {
	exists, err := s.store.CareerLevelsExist()
	if err != nil {
		return err
	}
	if exists {
		if !force {
			return ErrAlreadySeeded
		}
		slog.Info("正在清空已有的职业框架数据")
		if err := s.store.ClearCareerData(); err != nil {
			return fmt.Errorf("clear career data: %w", err)
		}
	}

	if err := s.SeedCareerFramework(); err != nil {
		return err
	}

	return s.SeedSkills()
}

func (s *Seeder) SeedCareerFramework() error {
	framework, err := s.loader.LoadCareerFramework()
	if err != nil {
		return err
	}

	levels, areas := BuildCareerFramework(framework)
	if err := s.store.CreateCareerFramework(levels, areas); err != nil {
		return fmt.Errorf("create career framework: %w", err)
	}

	expectations := 0
	for _, a := range areas {
		expectations += len(a.Expectations)
	}
	slog.Info("已写入职业框架", "levels", len(levels), "areas", len(areas), "expectations", expectations)

	return nil
}

// BuildCareerFramework 按文档中的顺序生成职业级别和能力维度。
// 架构师能力的 key 加上 architect_ 前缀，shared 期望展开到 PC09 和 PC10。
func BuildCareerFramework(framework *reference.CareerFramework) ([]*domain.CareerLevel, []*domain.CompetencyAreaDetail) {
	levels := make([]*domain.CareerLevel, 0)
	for pair := framework.CareerTracks.Oldest(); pair != nil; pair = pair.Next() {
		trackKey, track := pair.Key, pair.Value
		for _, l := range track.Levels {
			levels = append(levels, &domain.CareerLevel{
				Track:           trackKey,
				Level:           l.Level,
				Title:           l.Title,
				PayClass:        l.PayClass,
				Summary:         l.Summary,
				ImpactScope:     l.ImpactScope,
				ProjectCategory: l.ProjectCategory,
			})
		}
	}

	areas := make([]*domain.CompetencyAreaDetail, 0)
	for pair := framework.CompetencyAreas.Oldest(); pair != nil; pair = pair.Next() {
		area := pair.Value
		detail := newAreaDetail(pair.Key, area.Name, area.Description)
		for lvl := area.Levels.Oldest(); lvl != nil; lvl = lvl.Next() {
			payClass, exp := lvl.Key, lvl.Value
			detail.Expectations = append(detail.Expectations, &domain.CompetencyExpectation{
				PayClass:     payClass,
				Expectations: exp.Expectations,
				Scope:        exp.Scope,
			})
		}
		areas = append(areas, detail)
	}

	for pair := framework.ArchitectCompetencies.Oldest(); pair != nil; pair = pair.Next() {
		comp := pair.Value
		detail := newAreaDetail("architect_"+pair.Key, comp.Name, comp.Description)
		for _, exp := range []*reference.ArchitectExpectation{comp.Architect, comp.SeniorArchitect} {
			if exp == nil {
				continue
			}
			detail.Expectations = append(detail.Expectations, &domain.CompetencyExpectation{
				PayClass:     exp.PayClass,
				Expectations: exp.Expectations,
			})
		}
		if comp.Shared != nil {
			for _, payClass := range reference.SharedArchitectPayClasses {
				detail.Expectations = append(detail.Expectations, &domain.CompetencyExpectation{
					PayClass:     payClass,
					Expectations: comp.Shared.Expectations,
				})
			}
		}
		areas = append(areas, detail)
	}

	return levels, areas
}

func newAreaDetail(key, name, description string) *domain.CompetencyAreaDetail {
	return &domain.CompetencyAreaDetail{
		CompetencyArea: domain.CompetencyArea{
			AreaKey:     key,
			Name:        name,
			Description: description,
		},
		Expectations: make([]*domain.CompetencyExpectation, 0),
	}
}

func (s *Seeder) SeedSkills() error {
	tech, err := s.loader.LoadTechMasterData()
	if err != nil {
		return err
	}
	skillsets, err := s.loader.LoadSkillsets()
	if err != nil {
		return err
	}

	skills := BuildSkills(tech, skillsets)
	if err := s.store.CreateSkills(skills); err != nil {
		return fmt.Errorf("create skills: %w", err)
	}

	slog.Info("已写入技能目录", "tech", len(tech.Flat), "data", len(skillsets.Skillsets))
	return nil
}

// BuildSkills 技术技能来自 TechMasterData 的 flat 列表，数据技能来自 Skillsets
func BuildSkills(tech *reference.TechMasterData, skillsets *reference.Skillsets) []*domain.Skill {
	skills := make([]*domain.Skill, 0, len(tech.Flat)+len(skillsets.Skillsets))
	for _, item := range tech.Flat {
		skills = append(skills, &domain.Skill{
			Name:           item.SubSkill,
			ParentCategory: item.ParentSkill,
			Description:    item.FullName,
			IsDataSkill:    false,
		})
	}

	for _, set := range skillsets.Skillsets {
		category := set.Category
		if category == "" {
			category = domain.SkillCategoryStandard
		}
		skills = append(skills, &domain.Skill{
			Name:           set.Name,
			ParentCategory: "Data",
			Description:    set.Description,
			Category:       category,
			Roles:          string(set.Roles),
			IsDataSkill:    true,
		})
	}

	return skills
}

// SeedSampleCompetencies 只在能力表为空时写入示例能力，返回写入的数量
func (s *Seeder) SeedSampleCompetencies() (int, error) {
	count, err := s.store.CountCompetencies()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for _, c := range SampleCompetencies() {
		if err := s.store.CreateCompetency(c); err != nil {
			return 0, fmt.Errorf("create competency %s: %w", c.Name, err)
		}
	}

	return len(SampleCompetencies()), nil
}
