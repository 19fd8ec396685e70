// Package workflow is the list/modal CRUD engine shared by every console
// screen. A Descriptor names the entity, its columns, form fields and
// actions; a Capability performs search and mutations against the API.
// The engine fetches lists into the ListCache, projects rows, drives the
// modal form and keeps the cache in step with each successful mutation.
package workflow
