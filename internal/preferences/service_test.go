package preferences_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
)

func newService(repo preferences.Repository) *preferences.Service {
	return preferences.NewService(preferences.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		CacheTTL:   time.Minute,
	})
}

func TestService_ResolveDefaultsForUnknownUser(t *testing.T) {
	svc := newService(preferences.NewInMemoryRepository())

	prefs, err := svc.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if prefs.Template != goal.TemplateBalanced {
		t.Errorf("template = %q, want balanced", prefs.Template)
	}
	if prefs.Selection.BMR != goal.DefaultAlgorithmSelection().BMR {
		t.Errorf("bmr selection = %q, want default", prefs.Selection.BMR)
	}
	if prefs.Adjustment.Mode != goal.AdjustDynamic {
		t.Errorf("mode = %q, want dynamic", prefs.Adjustment.Mode)
	}
}

func TestService_SaveAndResolve(t *testing.T) {
	repo := preferences.NewInMemoryRepository()
	svc := newService(repo)
	ctx := context.Background()

	prefs := preferences.Default("u1")
	prefs.Template = goal.TemplateKeto
	prefs.Adjustment = goal.CalorieAdjustmentConfig{Mode: goal.AdjustPercentage, EarnBackPct: 50}

	if err := svc.Save(ctx, prefs); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := svc.Resolve(ctx, "u1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Template != goal.TemplateKeto {
		t.Errorf("template = %q, want keto", got.Template)
	}
	split := got.Split()
	if split.CarbsPct != 5 || split.FatPct != 70 {
		t.Errorf("unexpected keto split: %+v", split)
	}
}

func TestService_SaveRejectsInvalid(t *testing.T) {
	svc := newService(preferences.NewInMemoryRepository())
	ctx := context.Background()

	t.Run("earn-back out of range", func(t *testing.T) {
		prefs := preferences.Default("u1")
		prefs.Adjustment.EarnBackPct = 130
		if err := svc.Save(ctx, prefs); err == nil {
			t.Error("expected error for earn-back 130")
		}
	})

	t.Run("custom split imbalance", func(t *testing.T) {
		prefs := preferences.Default("u1")
		prefs.Template = goal.TemplateCustom
		prefs.CustomSplit = &goal.MacroSplit{CarbsPct: 50, ProteinPct: 30, FatPct: 30}
		if err := svc.Save(ctx, prefs); err == nil {
			t.Error("expected error for split summing to 110")
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		prefs := preferences.Default("u1")
		prefs.Template = "carnivore"
		if err := svc.Save(ctx, prefs); err == nil {
			t.Error("expected error for unknown template")
		}
	})
}

func TestService_ResolveClampsStoredValues(t *testing.T) {
	repo := preferences.NewInMemoryRepository()
	svc := newService(repo)
	ctx := context.Background()

	// Write directly to the repository, bypassing Save's validation, as a
	// stand-in for rows written by an older deployment.
	stale := preferences.Default("u1")
	stale.Adjustment.EarnBackPct = 250
	if err := repo.Upsert(ctx, stale); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := svc.Resolve(ctx, "u1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Adjustment.EarnBackPct != 100 {
		t.Errorf("earn-back = %v, want clamped 100", got.Adjustment.EarnBackPct)
	}
}

func TestService_ListDeviceProjectionUsers(t *testing.T) {
	repo := preferences.NewInMemoryRepository()
	svc := newService(repo)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		prefs := preferences.Default(id)
		if id != "b" {
			prefs.Adjustment.Mode = goal.AdjustDeviceProjection
		}
		if err := repo.Upsert(ctx, prefs); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	ids, err := svc.ListDeviceProjectionUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Errorf("ids = %v, want [a c]", ids)
	}
}

func TestPreferences_SplitFallsBack(t *testing.T) {
	prefs := preferences.Default("u1")
	prefs.Template = goal.TemplateCustom
	prefs.CustomSplit = nil

	split := prefs.Split()
	if err := split.Validate(); err != nil {
		t.Errorf("fallback split invalid: %v", err)
	}
}
