//go:build swag

package swaggerkit

// registers the generated document under InstanceName
import _ "scheduling/internal/services/api/docs"
