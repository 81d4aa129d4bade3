package config

// ExampleConfig is a commented config file matching the defaults.
const ExampleConfig = `# todo configuration

# Where task data lives.
data_dir = "~/.todo"

# Name of the persistence slot. Each list is stored separately.
list = "tasks"

# Storage backend: "file" (one file per list) or "sqlite" (todo.db in data_dir).
backend = "file"

# Serialization of the task collection: "json" or "yaml".
format = "json"

# Log level: debug, info, warn, error.
log_level = "warn"

[defaults]
category = "personal"
priority = "medium"
`
