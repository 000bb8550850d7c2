// Package paramap is a parallax mapped PBR material plugin. It installs
// into a host App as a Module: materials are added to a MaterialStore, and
// every frame the dirty ones are flattened into uniform blocks and their
// shader variants are compiled through a PipelineCache.
package paramap

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"
)

type systemFn any

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	frame     uint64
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Step runs every system once, stage by stage.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
	app.frame++
}

// Run steps the app frames times.
func (app *App) Run(frames int) {
	for i := 0; i < frames; i++ {
		app.Step()
	}
}

// Frame returns the number of completed steps.
func (app *App) Frame() uint64 { return app.frame }

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("%s is not a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type *T.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem resolves the arguments of system and calls it. Pointer
// arguments receive the resource of their element type or *Commands;
// interface arguments receive the first resource implementing them, Logger
// falling back to a no-op logger.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)

		if argType.Kind() == reflect.Interface {
			if resource, ok := app.resourceImplementing(argType); ok {
				args[i] = reflect.ValueOf(resource)
				continue
			}
			if argType == typeOfLogger {
				args[i] = reflect.ValueOf(NewNopLogger())
				continue
			}
		} else if argType.Kind() == reflect.Pointer {
			underlyingType := argType.Elem()
			if underlyingType == typeOfCommands {
				args[i] = reflect.ValueOf(&Commands{app: app})
				continue
			}
			if resource, ok := app.resources[underlyingType]; ok {
				args[i] = reflect.ValueOf(resource)
				continue
			}
		}

		panic(fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
			runtime.FuncForPC(systemValue.Pointer()).Name(),
			fmt.Sprint(systemType),
			fmt.Sprint(argType),
		))
	}
	systemValue.Call(args)
}

// resourceImplementing returns the only resource implementing iface. More
// than one is ambiguous and panics.
func (app *App) resourceImplementing(iface reflect.Type) (any, bool) {
	var found []any
	for _, r := range app.resources {
		if reflect.TypeOf(r).Implements(iface) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return nil, false
	case 1:
		return found[0], true
	}
	names := make([]string, len(found))
	for i, r := range found {
		names[i] = reflect.TypeOf(r).String()
	}
	slices.Sort(names)
	panic(fmt.Sprintf("%s is implemented by more than one resource: %s", iface, strings.Join(names, ", ")))
}
