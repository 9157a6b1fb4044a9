package analyzer

import (
	"strings"

	"github.com/ccollicutt/clsview/pkg/parser"
)

// Header fields read by Summarize.
const (
	FieldUnityVersion   = "Unity-Version"
	FieldBuildTarget    = "Build-Target"
	FieldEditorPlatform = "Editor-Platform"
	FieldUPMDependency  = "UPM-Dependency"
	FieldVPMDependency  = "VPM-Dependency"
)

// Package is a project dependency reported in the dump header.
type Package struct {
	Name string `json:"name" yaml:"name"`

	// UPM is the Unity Package Manager source, empty when not installed.
	UPM string `json:"upm,omitempty" yaml:"upm,omitempty"`

	// VPM is the VRChat Package Manager version, empty when not managed by VPM.
	VPM string `json:"vpm,omitempty" yaml:"vpm,omitempty"`
}

// ProjectInfo describes the Unity project a dump was saved from.
type ProjectInfo struct {
	UnityVersion   string    `json:"unity_version,omitempty" yaml:"unity_version,omitempty"`
	BuildTarget    string    `json:"build_target,omitempty" yaml:"build_target,omitempty"`
	EditorPlatform string    `json:"editor_platform,omitempty" yaml:"editor_platform,omitempty"`
	Packages       []Package `json:"packages" yaml:"packages"`
}

// Summarize reads the project description from a dump header. For the
// single-valued fields the last occurrence wins. Packages are listed in the
// order their name first appears; a repeated UPM or VPM entry for the same
// package replaces the earlier one.
func Summarize(header parser.Fields) ProjectInfo {
	info := ProjectInfo{Packages: []Package{}}
	index := make(map[string]int)

	pkg := func(name string) *Package {
		i, ok := index[name]
		if !ok {
			i = len(info.Packages)
			index[name] = i
			info.Packages = append(info.Packages, Package{Name: name})
		}
		return &info.Packages[i]
	}

	for _, field := range header {
		switch strings.ToLower(field.Key) {
		case strings.ToLower(FieldUPMDependency):
			name, source, _ := strings.Cut(field.Value, "@")
			pkg(name).UPM = source
		case strings.ToLower(FieldVPMDependency):
			name, version, _ := strings.Cut(field.Value, "@")
			pkg(name).VPM = version
		case strings.ToLower(FieldUnityVersion):
			info.UnityVersion = field.Value
		case strings.ToLower(FieldBuildTarget):
			info.BuildTarget = field.Value
		case strings.ToLower(FieldEditorPlatform):
			info.EditorPlatform = field.Value
		}
	}

	return info
}

// String renders the summary as the plain-text project report.
func (p ProjectInfo) String() string {
	var sb strings.Builder

	sb.WriteString("Unity version: " + orDefault(p.UnityVersion, "unknown") + "\n")
	sb.WriteString("Build target: " + orDefault(p.BuildTarget, "unknown") + "\n")
	sb.WriteString("Editor platform: " + orDefault(p.EditorPlatform, "unknown") + "\n")
	sb.WriteString("\n")

	for _, pkg := range p.Packages {
		sb.WriteString(pkg.Name + ":\n")
		sb.WriteString("UPM: " + orDefault(pkg.UPM, "not installed") + "\n")
		if pkg.VPM != "" {
			sb.WriteString("VPM: " + pkg.VPM + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
