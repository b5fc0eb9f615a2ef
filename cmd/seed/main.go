package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/growthpath/backend/internal/config"
	"github.com/growthpath/backend/internal/importer"
	"github.com/growthpath/backend/internal/reference"
	"github.com/growthpath/backend/internal/repository"
	"github.com/growthpath/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op string
	var force bool
	var file string
	var n int

	flag.StringVar(&op, "op", "", "要执行的操作 (all: 建表并写入全部参考数据, reference: 职业框架和技能目录, sample: 示例能力, demo: 随机用户, import: 导入 Planisware 文件)")
	flag.BoolVar(&force, "force", false, "已经写入过职业框架时先清空再写入")
	flag.StringVar(&file, "file", "", "要导入的 Excel 文件路径")
	flag.IntVar(&n, "n", 5, "要插入的随机用户数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository 并确保表结构存在
	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.EnsureSchema(); err != nil {
		logger.Error("无法创建数据库表", "error", err)
		return
	}

	seeder := seed.NewSeeder(repo, reference.NewLoader(cfg))

	// 执行操作
	switch op {
	case "":
		slog.Error("未指定操作")
	case "all":
		seedReference(seeder, force)
		seedSample(seeder)
	case "reference":
		seedReference(seeder, force)
	case "sample":
		seedSample(seeder)
	case "demo":
		created, err := seed.SeedDemoUsers(repo, n, cfg.Import.PlaceholderPassword, cfg.Import.EmailDomain, 8)
		if err != nil {
			slog.Error("无法插入随机用户", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入随机用户成功", slog.Int("count", created))
	case "import":
		if file == "" {
			slog.Error("请使用 -file 指定要导入的文件")
			return
		}
		importFile(cfg, repo, file)
	default:
		slog.Error("不支持的操作", slog.String("op", op))
	}
}

func seedReference(seeder *seed.Seeder, force bool) {
	if err := seeder.SeedReferenceData(force); err != nil {
		switch {
		case errors.Is(err, seed.ErrAlreadySeeded):
			slog.Info("职业框架已经存在，跳过写入（使用 -force 重新写入）")
		default:
			slog.Error("无法写入参考数据", slog.String("error", err.Error()))
		}
		return
	}
	slog.Info("写入参考数据成功")
}

func seedSample(seeder *seed.Seeder) {
	created, err := seeder.SeedSampleCompetencies()
	if err != nil {
		slog.Error("无法写入示例能力", slog.String("error", err.Error()))
		return
	}
	if created == 0 {
		slog.Info("能力表不为空，跳过示例能力")
		return
	}
	slog.Info("写入示例能力成功", slog.Int("count", created))
}

func importFile(cfg *config.Config, repo *repository.Repository, path string) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("无法打开文件", slog.String("error", err.Error()))
		return
	}
	defer f.Close()

	im, err := importer.NewImporter(cfg, repo)
	if err != nil {
		slog.Error("无法创建导入器", slog.String("error", err.Error()))
		return
	}

	stats, err := im.Import(f)
	if err != nil {
		slog.Error("导入失败", slog.String("error", err.Error()))
		return
	}

	slog.Info("导入完成",
		"usersCreated", stats.UsersCreated,
		"usersExisting", stats.UsersExisting,
		"competenciesCreated", stats.CompetenciesCreated,
		"competenciesExisting", stats.CompetenciesExisting,
		"assessmentsCreated", stats.AssessmentsCreated,
		"assessmentsExisting", stats.AssessmentsExisting,
		"rowsProcessed", stats.RowsProcessed,
		"rowsSkipped", stats.RowsSkipped,
	)
	for _, e := range stats.Errors {
		slog.Warn("行错误", slog.String("error", e))
	}
	for _, u := range stats.UnmappedLevels {
		slog.Warn("无法识别的等级，已按 beginner 处理", slog.Int("row", u.Row), slog.String("value", u.Value))
	}
}
