package shader

import "testing"

func TestNewTypeName(t *testing.T) {
	tests := []struct {
		name  string
		snake string
		upper string
		lower string
	}{
		{"Position", "position", "POSITION", "position"},
		{"CollisionResult", "collision_result", "COLLISIONRESULT", "collisionresult"},
		{"HTTPServer", "http_server", "HTTPSERVER", "httpserver"},
		{"Vec3Data", "vec3_data", "VEC3DATA", "vec3data"},
		{"my_type", "my_type", "MY_TYPE", "my_type"},
		{"X", "x", "X", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewTypeName(tt.name)
			if n.Name != tt.name {
				t.Errorf("Name: got %q, want %q", n.Name, tt.name)
			}
			if n.Snake != tt.snake {
				t.Errorf("Snake: got %q, want %q", n.Snake, tt.snake)
			}
			if n.Upper != tt.upper {
				t.Errorf("Upper: got %q, want %q", n.Upper, tt.upper)
			}
			if n.Lower != tt.lower {
				t.Errorf("Lower: got %q, want %q", n.Lower, tt.lower)
			}
		})
	}
}

func TestDerivedNames(t *testing.T) {
	n := NewTypeName("CollisionResult")
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"UniformVar", n.UniformVar(), "collisionresult"},
		{"InputArrayVar", n.InputArrayVar(), "collisionresult_input_array"},
		{"OutputArrayVar", n.OutputArrayVar(), "collisionresult_output_array"},
		{"CounterVar", n.CounterVar(), "collisionresult_counter"},
		{"OutputIndexVar", n.OutputIndexVar(), "collisionresult_output_array_index"},
		{"InputLengthConst", n.InputLengthConst(), "COLLISIONRESULT_INPUT_ARRAY_LENGTH"},
		{"OutputLengthConst", n.OutputLengthConst(), "COLLISIONRESULT_OUTPUT_ARRAY_LENGTH"},
		{"String", n.String(), "CollisionResult"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestTypeNameDeterministic(t *testing.T) {
	if NewTypeName("FooBar") != NewTypeName("FooBar") {
		t.Error("equal names derived differently")
	}
}
