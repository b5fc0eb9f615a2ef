package seed

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/importer"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Anna", "Ben", "Clara", "David", "Elena", "Felix", "Greta", "Hannah", "Jonas", "Julia",
	"Lukas", "Maria", "Max", "Nina", "Oliver", "Paul", "Sophie", "Tim", "Laura", "Noah",
}
var commonLastNames = []string{
	"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner", "Becker", "Schulz", "Hoffmann",
	"Koch", "Richter", "Klein", "Wolf", "Neumann", "Schwarz", "Braun", "Zimmermann", "Hartmann", "Krüger",
}

func GenerateRandomName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]
	return first + " " + last
}

var roles = []domain.Role{
	domain.RoleEmployee,
	domain.RoleEmployee,
	domain.RoleEmployee,
	domain.RoleManager,
	domain.RoleHRAdmin,
	domain.RoleLeadership,
}

// GenerateRandomRole 员工的概率更高
func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

// GenerateRandomUser 邮箱和导入时一样由姓名推导
func GenerateRandomUser(passwordHash, emailDomain string) *domain.User {
	name := GenerateRandomName()
	return &domain.User{
		Email:        importer.DeriveEmail(name, emailDomain),
		Name:         name,
		Role:         GenerateRandomRole(),
		PasswordHash: passwordHash,
	}
}

// 用 Fisher-Yates 洗牌算法随机挑选 n 项能力
func pickCompetencies(competencies []*domain.Competency, n int) []*domain.Competency {
	picked := make([]*domain.Competency, len(competencies))
	copy(picked, competencies)

	for i := len(picked) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		picked[i], picked[j] = picked[j], picked[i]
	}

	if n > len(picked) {
		n = len(picked)
	}
	return picked[:n]
}

// GenerateRandomAssessments 为用户随机生成 1 到 max 条评估，每项能力最多一条
func GenerateRandomAssessments(userID int64, competencies []*domain.Competency, max int) []*domain.Assessment {
	if len(competencies) == 0 || max <= 0 {
		return nil
	}

	picked := pickCompetencies(competencies, rand.Intn(max)+1)
	assessments := make([]*domain.Assessment, 0, len(picked))
	for _, c := range picked {
		assessments = append(assessments, &domain.Assessment{
			UserID:           userID,
			CompetencyID:     c.ID,
			ProficiencyLevel: domain.ProficiencyLevels[rand.Intn(len(domain.ProficiencyLevels))],
		})
	}
	return assessments
}

type DemoStore interface {
	CreateUser(user *domain.User) error
	GetAllCompetencies() ([]*domain.Competency, error)
	CreateAssessment(assessment *domain.Assessment) error
}

// SeedDemoUsers 插入 n 个随机用户及其评估记录，插入失败的用户会被跳过，返回成功插入的数量
func SeedDemoUsers(store DemoStore, n int, password, emailDomain string, maxAssessments int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid user count %d", n)
	}

	competencies, err := store.GetAllCompetencies()
	if err != nil {
		return 0, err
	}
	if len(competencies) == 0 {
		slog.Warn("能力表为空，随机用户不会有评估记录")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := 0; i < n; i++ {
		user := GenerateRandomUser(string(hash), emailDomain)
		if err := store.CreateUser(user); err != nil {
			// 随机姓名可能重复，邮箱冲突时跳过
			slog.Error("无法插入用户", "email", user.Email, "error", err)
			continue
		}

		for _, a := range GenerateRandomAssessments(user.ID, competencies, maxAssessments) {
			if err := store.CreateAssessment(a); err != nil {
				return created, fmt.Errorf("create assessment for %s: %w", user.Email, err)
			}
		}
		created++
	}

	return created, nil
}
