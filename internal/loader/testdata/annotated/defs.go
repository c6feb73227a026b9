package annotated

//buildgen:root workspace
type Workspace string

//buildgen:path category=root root=workspace
type Config struct {
	Etc  struct{} `seg:"literal"`
	Name string
}
