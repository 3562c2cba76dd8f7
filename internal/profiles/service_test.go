package profiles

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathways-backend/internal/achievements"
	"pathways-backend/internal/baas"
	"pathways-backend/internal/skills"
	"pathways-backend/internal/wellbeing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUpdateCreatesThenPatches(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(baas.NewMemoryTables(nil))
	svc.Now = func() time.Time { return now }

	_, err := svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := svc.Update(ctx, "u1", "ada@psa.test", Update{FullName: strPtr(" Ada Tan "), YearsExperience: intPtr(6)})
	require.NoError(t, err)
	assert.Equal(t, "Ada Tan", created.FullName)
	assert.Equal(t, "ada@psa.test", created.Email)

	now = now.Add(time.Hour)
	updated, err := svc.Update(ctx, "u1", "ada@psa.test", Update{JobTitle: strPtr("Terminal Planner")})
	require.NoError(t, err)
	assert.Equal(t, "Terminal Planner", updated.JobTitle)
	assert.Equal(t, "Ada Tan", updated.FullName)
	assert.True(t, updated.UpdatedAt.Equal(now))

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.YearsExperience)
}

func TestUpdateValidation(t *testing.T) {
	svc := NewService(baas.NewMemoryTables(nil))
	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'a'
	}
	for name, upd := range map[string]Update{
		"empty":           {},
		"negative years":  {YearsExperience: intPtr(-1)},
		"bio too long":    {Bio: strPtr(string(long))},
		"too many years":  {YearsExperience: intPtr(71)},
	} {
		_, err := svc.Update(context.Background(), "u1", "a@b.c", upd)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestUpdateValidationCountsCharacters(t *testing.T) {
	svc := NewService(baas.NewMemoryTables(nil))
	_, err := svc.Update(context.Background(), "u1", "a@b.c", Update{Bio: strPtr(strings.Repeat("港", 2000))})
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), "u1", "a@b.c", Update{Bio: strPtr(strings.Repeat("港", 2001))})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMentorsExcludesCaller(t *testing.T) {
	ctx := context.Background()
	tables := baas.NewMemoryTables(nil)
	svc := NewService(tables)
	for _, p := range []Profile{
		{ID: "m1", Email: "m1@psa.test", IsMentor: true},
		{ID: "m2", Email: "m2@psa.test", IsMentor: true},
		{ID: "u1", Email: "u1@psa.test", IsMentor: true},
		{ID: "u2", Email: "u2@psa.test"},
	} {
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}
	mentors, err := svc.Mentors(ctx, "u1")
	require.NoError(t, err)
	ids := []string{}
	for _, m := range mentors {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"m1", "m2"}, ids)
}

func TestLoaderLoadsSnapshot(t *testing.T) {
	ctx := context.Background()
	tables := baas.NewMemoryTables(nil)
	loader := &Loader{
		Profiles:     NewService(tables),
		Skills:       skills.NewService(tables),
		Achievements: achievements.NewService(tables),
		Wellbeing:    wellbeing.NewService(tables),
	}
	_, err := loader.Skills.Add(ctx, "u1", skills.NewSkill{Name: "Yard planning", Proficiency: 4, Category: "ops"})
	require.NoError(t, err)
	_, err = loader.Wellbeing.Record(ctx, "u1", wellbeing.NewEntry{Mood: 4, StressLevel: 2})
	require.NoError(t, err)

	snap, err := loader.Load(ctx, "u1", LoadOptions{Wellbeing: true})
	require.NoError(t, err)
	assert.Equal(t, "u1", snap.Profile.ID)
	assert.Len(t, snap.Skills, 1)
	assert.Nil(t, snap.Achievements)
	assert.Len(t, snap.Wellbeing, 1)

	assert.Equal(t, "- Yard planning (4/5) [ops]", SkillsText(snap.Skills))
	assert.Equal(t, "1 check-ins, average mood 4.0/5, average stress 2.0/5", WellbeingText(snap.Wellbeing))
	assert.Equal(t, "Name: Ada\nYears of experience: 3", ProfileText(Profile{FullName: "Ada", YearsExperience: 3}))
}
