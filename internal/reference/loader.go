package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/growthpath/backend/internal/config"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Loader 每次调用都从磁盘重新读取参考文档，不做缓存
type Loader struct {
	dir                 string
	careerFrameworkFile string
	techMasterDataFile  string
	skillsetsFile       string
}

func NewLoader(cfg *config.Config) *Loader {
	return &Loader{
		dir:                 cfg.Reference.Dir,
		careerFrameworkFile: cfg.Reference.CareerFrameworkFile,
		techMasterDataFile:  cfg.Reference.TechMasterDataFile,
		skillsetsFile:       cfg.Reference.SkillsetsFile,
	}
}

// CareerFramework 中的对象保留文档中键的顺序，
// 种子数据按这个顺序写入，能力维度的 id 顺序因此与文档一致
type CareerFramework struct {
	CareerTracks          orderedmap.OrderedMap[string, CareerTrack]         `json:"career_tracks"`
	CompetencyAreas       orderedmap.OrderedMap[string, CompetencyArea]      `json:"competency_areas"`
	ArchitectCompetencies orderedmap.OrderedMap[string, ArchitectCompetency] `json:"architect_competencies"`
}

type CareerTrack struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Levels      []CareerLevel `json:"levels"`
}

type CareerLevel struct {
	Level           int    `json:"level"`
	Title           string `json:"title"`
	PayClass        string `json:"pay_class"`
	Summary         string `json:"summary"`
	ImpactScope     string `json:"impact_scope"`
	ProjectCategory string `json:"project_category,omitempty"`
}

type CompetencyArea struct {
	Name        string                                          `json:"name"`
	Description string                                          `json:"description"`
	Levels      orderedmap.OrderedMap[string, LevelExpectation] `json:"levels"`
}

type LevelExpectation struct {
	Expectations string `json:"expectations"`
	Scope        string `json:"scope,omitempty"`
}

type ArchitectCompetency struct {
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	Architect       *ArchitectExpectation `json:"architect,omitempty"`
	SeniorArchitect *ArchitectExpectation `json:"senior_architect,omitempty"`
	Shared          *LevelExpectation     `json:"shared,omitempty"`
}

type ArchitectExpectation struct {
	PayClass     string `json:"pay_class"`
	Expectations string `json:"expectations"`
}

// 架构师能力中 shared 期望适用的 pay class
var SharedArchitectPayClasses = []string{"PC09", "PC10"}

type TechMasterData struct {
	Hierarchical json.RawMessage `json:"hierarchical"`
	Metadata     json.RawMessage `json:"metadata"`
	Flat         []TechSkill     `json:"flat"`
}

type TechSkill struct {
	ParentSkill string `json:"parent_skill"`
	SubSkill    string `json:"sub_skill"`
	FullName    string `json:"full_name"`
}

type Skillsets struct {
	Skillsets []Skillset `json:"skillsets"`
}

type Skillset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Roles       Roles  `json:"roles"`
}

// Roles 兼容字符串和字符串数组两种写法，数组会用 ", " 拼接
type Roles string

func (r *Roles) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Roles(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("roles must be a string or a list of strings: %w", err)
	}
	*r = Roles(strings.Join(list, ", "))
	return nil
}

func (l *Loader) LoadCareerFramework() (*CareerFramework, error) {
	framework := &CareerFramework{}
	if err := l.load(l.careerFrameworkFile, framework); err != nil {
		return nil, err
	}
	return framework, nil
}

func (l *Loader) LoadTechMasterData() (*TechMasterData, error) {
	data := &TechMasterData{}
	if err := l.load(l.techMasterDataFile, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (l *Loader) LoadSkillsets() (*Skillsets, error) {
	data := &Skillsets{}
	if err := l.load(l.skillsetsFile, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (l *Loader) load(name string, v any) error {
	path := filepath.Join(l.dir, name)

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	return nil
}

// FindLevel 在职业路线中查找指定 pay class 的级别
func (t CareerTrack) FindLevel(payClass string) (CareerLevel, bool) {
	for _, level := range t.Levels {
		if level.PayClass == payClass {
			return level, true
		}
	}
	return CareerLevel{}, false
}
