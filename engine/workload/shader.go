package workload

// beltShaderWGSL is the instanced belt shader shared by both workloads. The
// per-instance model matrices and colors live in a storage buffer indexed by
// instance_index; shading is a single directional light with a constant
// ambient term.
const beltShaderWGSL = `
struct Globals {
    view_projection: mat4x4<f32>,
};

struct Instance {
    model: mat4x4<f32>,
    color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> globals: Globals;
@group(0) @binding(1) var<storage, read> instances: array<Instance>;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
};

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) normal: vec3<f32>,
    @location(1) color: vec4<f32>,
};

@vertex
fn vs_main(in: VertexInput, @builtin(instance_index) instance_index: u32) -> VertexOutput {
    let inst = instances[instance_index];
    var out: VertexOutput;
    let world = inst.model * vec4<f32>(in.position, 1.0);
    out.position = globals.view_projection * world;
    out.normal = (inst.model * vec4<f32>(in.normal, 0.0)).xyz;
    out.color = inst.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let light_dir = normalize(vec3<f32>(0.3, 1.0, 0.2));
    let n = normalize(in.normal);
    let diffuse = max(dot(n, light_dir), 0.0) * 0.8 + 0.2;
    return vec4<f32>(in.color.rgb * diffuse, 1.0);
}
`
