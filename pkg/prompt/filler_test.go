package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formserve/pkg/prompt"
	"github.com/goliatone/go-formserve/pkg/schema"
	"github.com/goliatone/go-formserve/pkg/testsupport"
)

type stubDriver struct {
	inputs    []string
	passwords []string
	textAreas []string
	selectIdx []int
	confirm   []bool
	err       error

	infos   []string
	selects []prompt.SelectConfig
}

func (s *stubDriver) Input(_ context.Context, _ prompt.InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return shift(&s.inputs, "input")
}

func (s *stubDriver) Password(_ context.Context, _ prompt.InputConfig) (string, error) {
	return shift(&s.passwords, "password")
}

func (s *stubDriver) TextArea(_ context.Context, _ prompt.TextAreaConfig) (string, error) {
	return shift(&s.textAreas, "textarea")
}

func (s *stubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	idx := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return idx, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ prompt.ConfirmConfig) (bool, error) {
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func shift(queue *[]string, kind string) (string, error) {
	if len(*queue) == 0 {
		return "", errors.New("no " + kind + " scripted")
	}
	val := (*queue)[0]
	*queue = (*queue)[1:]
	return val, nil
}

func TestFillContactForm(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"  Ada ", "bad", "ada@example.com", ""},
		selectIdx: []int{0},
		textAreas: []string{"Hello"},
	}
	got, err := prompt.NewFiller(driver).Fill(context.Background(), testsupport.ContactForm())
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"age":     "",
		"topic":   "sales",
		"message": "Hello",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	wantInfos := []string{"Contact us", "Email must be a valid email address"}
	if diff := cmp.Diff(wantInfos, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if len(driver.selects) != 1 || driver.selects[0].DefaultIndex != 1 {
		t.Fatalf("expected topic default to be preselected, got %+v", driver.selects)
	}
}

func TestFillCheckboxAndOptionalSelect(t *testing.T) {
	form := schema.FormSchema{
		Title: "Prefs",
		Fields: []schema.FieldSchema{
			{Name: "agree", AnswerType: schema.AnswerCheckbox, Options: []string{"yes"}},
			{Name: "plan", AnswerType: schema.AnswerSelect, Options: []string{"free", "pro"}, Default: schema.String("")},
			{Name: "secret", AnswerType: schema.AnswerPassword},
		},
	}
	driver := &stubDriver{
		confirm:   []bool{false, true},
		selectIdx: []int{0},
		passwords: []string{"hunter2"},
	}
	got, err := prompt.NewFiller(driver).Fill(context.Background(), form)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]string{"agree": "yes", "plan": "", "secret": "hunter2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Prefs", "agree is required"}, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"(none)", "free", "pro"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("select options mismatch (-want +got):\n%s", diff)
	}
}

func TestFillAborted(t *testing.T) {
	driver := &stubDriver{err: prompt.ErrAborted}
	_, err := prompt.NewFiller(driver).Fill(context.Background(), testsupport.ContactForm())
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestFillMaxAttempts(t *testing.T) {
	form := schema.FormSchema{
		Title:  "Numbers",
		Fields: []schema.FieldSchema{{Name: "n", Title: "N", AnswerType: schema.AnswerNumber}},
	}
	driver := &stubDriver{inputs: []string{"x", "y", "3"}}
	_, err := prompt.NewFiller(driver, prompt.WithMaxAttempts(2)).Fill(context.Background(), form)
	if !errors.Is(err, prompt.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestFillRejectsInvalidForm(t *testing.T) {
	_, err := prompt.NewFiller(&stubDriver{}).Fill(context.Background(), schema.FormSchema{})
	if !errors.Is(err, schema.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
