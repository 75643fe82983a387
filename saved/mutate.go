package saved

// Document mutators. Every command's durable effect goes through one of
// these so the dispatcher can apply exactly the ids and values it just
// applied to the live scene.

// FindComponent returns the component with the given id, or nil.
func (l *Level) FindComponent(id string) *Component {
	for _, c := range l.Components {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FindFirstKind returns the first component of the given kind, or nil.
func (l *Level) FindFirstKind(kind Kind) *Component {
	for _, c := range l.Components {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// FindSingleton locates the component a configure command targets: the one
// with the explicit id when given, otherwise the first component of the
// kind. Returns nil when an explicit id does not match anything of the kind.
func (l *Level) FindSingleton(kind Kind, targetID string) *Component {
	for _, c := range l.Components {
		if c.Kind != kind {
			continue
		}
		if targetID == "" || c.ID == targetID {
			return c
		}
	}
	return nil
}

// Append adds a component to the end of the level's ordered collection.
func (l *Level) Append(c *Component) {
	l.Components = append(l.Components, c)
}

// UpdateTransform overwrites only the placement fields that are present.
// Reports whether a component with the id was found.
func (l *Level) UpdateTransform(id string, position, rotation, scale *[3]float32) bool {
	c := l.FindComponent(id)
	if c == nil {
		return false
	}
	if position != nil {
		c.Generic.Position = *position
	}
	if rotation != nil {
		c.Generic.Rotation = *rotation
	}
	if scale != nil {
		c.Generic.Scale = *scale
	}
	return true
}

// SetScriptPath attaches a script file to a component. The script body
// itself lives behind the file boundary, not in the document.
func (l *Level) SetScriptPath(id, scriptPath string) bool {
	c := l.FindComponent(id)
	if c == nil {
		return false
	}
	c.ScriptPath = scriptPath
	return true
}

// EnsureSky returns the level's sky block, creating it with defaults on
// first configuration.
func (l *Level) EnsureSky() *SkyConfig {
	if l.Sky == nil {
		sky := DefaultSkyConfig()
		l.Sky = &sky
	}
	return l.Sky
}

// EnsureWater returns the level's water block, creating it with defaults on
// first configuration.
func (l *Level) EnsureWater() *WaterConfig {
	if l.Water == nil {
		water := DefaultWaterConfig()
		l.Water = &water
	}
	return l.Water
}
