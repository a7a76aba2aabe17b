package internal

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
)

// Environment looks up ambient cloud settings that were not given explicitly.
// Empty strings mean "unknown".
type Environment interface {
	Project(ctx context.Context) string
	Region(ctx context.Context) string
}

// StaticEnvironment returns fixed values
type StaticEnvironment struct {
	ProjectID string
	RegionID  string
}

func (e StaticEnvironment) Project(context.Context) string { return e.ProjectID }
func (e StaticEnvironment) Region(context.Context) string  { return e.RegionID }

// CredentialsProjectFunc returns the project attached to application default credentials
type CredentialsProjectFunc func(ctx context.Context) string

// GcloudEnvironment reads application default credentials and the local gcloud configuration
type GcloudEnvironment struct {
	runner             CommandRunner
	credentialsProject CredentialsProjectFunc
	log                logrus.FieldLogger
}

// NewGcloudEnvironment creates an environment backed by ADC and the gcloud CLI
func NewGcloudEnvironment(runner CommandRunner, log logrus.FieldLogger) *GcloudEnvironment {
	return &GcloudEnvironment{
		runner:             runner,
		credentialsProject: adcProject,
		log:                log,
	}
}

// adcProject returns the project id carried by application default credentials, if any
func adcProject(ctx context.Context) string {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return ""
	}
	return creds.ProjectID
}

// Project tries application default credentials first, then gcloud's active configuration
func (e *GcloudEnvironment) Project(ctx context.Context) string {
	if e.credentialsProject != nil {
		if project := strings.TrimSpace(e.credentialsProject(ctx)); project != "" {
			e.log.WithField("project", project).Debug("Project from application default credentials")
			return project
		}
	}
	return e.gcloudValue(ctx, "project")
}

// Region reads compute/region from gcloud's active configuration
func (e *GcloudEnvironment) Region(ctx context.Context) string {
	return e.gcloudValue(ctx, "compute/region")
}

func (e *GcloudEnvironment) gcloudValue(ctx context.Context, property string) string {
	output, err := e.runner.Run(ctx, "gcloud", "config", "get-value", property)
	if err != nil {
		e.log.WithError(err).WithField("property", property).Debug("gcloud lookup failed")
		return ""
	}

	// gcloud may print informational lines to stdout before the value
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	value := strings.TrimSpace(lines[len(lines)-1])
	if value == "(unset)" {
		return ""
	}
	if value != "" {
		e.log.WithField(property, value).Debug("Value from gcloud config")
	}
	return value
}
