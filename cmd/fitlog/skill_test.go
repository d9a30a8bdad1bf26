// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation, and embedded content.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSkillInstallCreatesFile(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	if err := installSkill(&out, strings.NewReader(""), home, true); err != nil {
		t.Fatalf("installSkill: %v", err)
	}

	path := filepath.Join(home, ".claude", "skills", "fitlog", "SKILL.md")
	if skillPath(home) != path {
		t.Errorf("skillPath = %s, want %s", skillPath(home), path)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
	embedded, _ := skillFS.ReadFile("skill/SKILL.md")
	if !bytes.Equal(written, embedded) {
		t.Error("Installed skill does not match embedded content")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm()&0600 != 0600 {
		t.Errorf("Expected file to be rw for owner, got %v", info.Mode())
	}
	if !strings.Contains(out.String(), "Installed fitlog skill") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestSkillInstallOverwritesExistingFile(t *testing.T) {
	home := t.TempDir()
	path := skillPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# Old Skill\nstale content"), 0600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := installSkill(&out, strings.NewReader("y\n"), home, false); err != nil {
		t.Fatalf("installSkill: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "stale content") {
		t.Error("Old content should have been replaced")
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("Expected overwrite note, got: %s", out.String())
	}
}

func TestSkillInstallDeclined(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	if err := installSkill(&out, strings.NewReader("n\n"), home, false); err != nil {
		t.Fatalf("installSkill: %v", err)
	}
	if !strings.Contains(out.String(), "Installation canceled.") {
		t.Errorf("Expected cancel message, got: %s", out.String())
	}
	if _, err := os.Stat(skillPath(home)); !os.IsNotExist(err) {
		t.Error("Skill file should not exist after declining")
	}
}

func TestSkillFSReadEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill/SKILL.md: %v", err)
	}

	s := string(content)
	if !strings.HasPrefix(s, "---") {
		t.Error("Expected SKILL.md to start with YAML frontmatter (---)")
	}
	for _, marker := range []string{
		"name: fitlog",
		"description:",
		"## When to use fitlog",
		"mcp__fitlog__add_record",
		"mcp__fitlog__list_records",
		"mcp__fitlog__update_record",
		"mcp__fitlog__delete_record",
		"mcp__fitlog__undo_delete",
		"mcp__fitlog__check_groups",
	} {
		if !strings.Contains(s, marker) {
			t.Errorf("Expected SKILL.md to contain %q", marker)
		}
	}
}

func TestSkillSkipConfirmFlag(t *testing.T) {
	flag := installSkillCmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("Expected --yes flag to be defined")
	}
	if flag.Shorthand != "y" {
		t.Errorf("Expected shorthand 'y', got %q", flag.Shorthand)
	}
	if flag.DefValue != "false" {
		t.Errorf("Expected default value 'false', got %q", flag.DefValue)
	}
}
