package paramap

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Logger returns the app logger.
func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
