package jobtree

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort         = "A hierarchical job namespace manager"
	MsgMoveShort         = "Move items into another folder"
	MsgMkdirShort        = "Create a folder path"
	MsgAddShort          = "Add a job to an existing folder"
	MsgLsShort           = "Show the namespace tree"
	MsgDestinationsShort = "List valid move targets for an item"
	MsgImportShort       = "Seed the namespace from a YAML file"
	MsgHistoryShort      = "Show a job's build history"
	MsgVersionShort      = "Print version information"
	MsgCompletionShort   = "Generate shell completion script"

	// Flag help
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagCreate  = "Create the destination folder if it does not exist (administrators only)"
	MsgFlagConfig  = "Path to an XML config file for the job"

	// Status messages
	MsgNoBuilds        = "No builds recorded for '%s'\n"
	MsgBuildItem       = "  #%d  %-10s %s\n"
	MsgNoDestinations  = "No valid destinations for '%s'\n"
	MsgDestinationItem = "  %s\n"
	MsgFolderCreated   = "Created folder '%s'\n"
	MsgJobCreated      = "Created job '%s'\n"
	MsgImported        = "Namespace imported from '%s'\n"
)

// Long messages (help text)
const (
	MsgRootLong = `jobtree manages a tree of jobs and folders, modeled after a CI server's
item namespace. Items are addressed by their full name, a slash-separated
path from the root. The 'jenkins' token names the root itself.`

	MsgMoveLong = `Move relocates one or more items into the destination folder. The
destination is given first, followed by the full names of the items to
move. Passing 'jenkins' as the destination moves items to the top level.

Inputs are validated exhaustively before anything moves: a failure on one
item does not hide problems with the others. Once execution starts, each
item is moved independently, so one failed move never aborts the batch.

Exit codes: 0 on success, 101 when input validation fails, 100 for
permission or execution errors.`

	MsgMkdirLong = `Mkdir creates every missing folder along the given path, reusing the
segments that already exist. It fails if a path segment names a job.`

	MsgAddLong = `Add creates a job inside an existing folder. The last path segment is the
job name; everything before it must name an existing folder. An XML config
document can be attached with --config.`

	MsgDestinationsLong = `Destinations asks the relocation handler chain which containers would
accept the item, honoring the acting user's permissions. The root is
printed as 'jenkins'.`

	MsgImportLong = `Import seeds the namespace from a YAML document describing folders, jobs,
and their build histories. Administrators only.`
)

// Example messages
const (
	MsgMoveExample = `  # Move two jobs into team-a/services
  jobtree move team-a/services app-build app-deploy

  # Move a job back to the top level
  jobtree move jenkins team-a/services/app-build

  # Create the destination on the fly (administrators only)
  jobtree move --create team-b/incoming legacy-job`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(jobtree completion bash)

Zsh:
  $ jobtree completion zsh > "${fpath[1]}/_jobtree"

Fish:
  $ jobtree completion fish | source

PowerShell:
  PS> jobtree completion powershell | Out-String | Invoke-Expression
`
)

// Error messages
const (
	MsgErrOpenStore  = "failed to open namespace store: %w"
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrReadConfig = "failed to read config file '%s': %w"
	MsgErrReadSeed   = "failed to read seed file '%s': %w"
)
