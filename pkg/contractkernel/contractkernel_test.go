package contractkernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinpuli/archscribe/pkg/contractkernel"
)

func TestIsContractHintPath_DirectoryHint(t *testing.T) {
	assert.True(t, contractkernel.IsContractHintPath("src/api/users.ts"))
	assert.False(t, contractkernel.IsContractHintPath("src/util/strings.ts"))
}

func TestIsContractHintPath_ExtensionHint(t *testing.T) {
	assert.True(t, contractkernel.IsContractHintPath("schemas/user.proto"))
	assert.True(t, contractkernel.IsContractHintPath("config/settings.yaml"))
	assert.False(t, contractkernel.IsContractHintPath("src/util/strings.ts"))
}

func TestBuildSurface_TypeScriptFunction(t *testing.T) {
	src := []byte("export function getUser(id: string): User {\n  return db.find(id)\n}\n")

	surface := contractkernel.BuildSurface("typescript", "src/api/users.ts", src)

	entry, ok := surface["function:getUser"]
	assert.True(t, ok)
	assert.Equal(t, "getUser", entry.Name)
}

func TestBuildSurface_JSONTopLevelKeys(t *testing.T) {
	src := []byte(`{"name": "svc", "ports": [8080], "config": {"timeout": 30}}`)

	surface := contractkernel.BuildSurface("", "config/settings.json", src)

	assert.Equal(t, "scalar", surface["schema_key:name"].Signature)
	assert.Equal(t, "array", surface["schema_key:ports"].Signature)
	assert.Equal(t, "object", surface["schema_key:config"].Signature)
}

func TestBuildSurface_FlaskEndpoint(t *testing.T) {
	src := []byte("@app.route('/users', methods=['GET', 'POST'])\ndef users():\n    pass\n")

	surface := contractkernel.BuildSurface("python", "src/api/routes.py", src)

	_, hasGet := surface["endpoint:GET:/users"]
	_, hasPost := surface["endpoint:POST:/users"]
	assert.True(t, hasGet)
	assert.True(t, hasPost)
}
