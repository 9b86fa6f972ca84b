package workflow

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"genassist/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

// TemplateSpec 单个意图的模板定义
type TemplateSpec struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Steps       []string `yaml:"steps"`
}

// templateFile 模板文件结构
type templateFile struct {
	Templates map[string]TemplateSpec `yaml:"templates"`
	Default   TemplateSpec            `yaml:"default"`
}

type compiledTemplate struct {
	title       *template.Template
	description *template.Template
	steps       []string
}

// TemplateTable 意图到模板的查找表，加载后只读
type TemplateTable struct {
	byIntent map[models.Intent]*compiledTemplate
	fallback *compiledTemplate
}

// Rendered 渲染结果
type Rendered struct {
	Title       string
	Description string
	Steps       []models.Step
}

// DefaultTemplates 内置模板表
func DefaultTemplates() (*TemplateTable, error) {
	return ParseTemplates(defaultTemplatesYAML)
}

// LoadTemplates 从文件加载模板表，path 为空时使用内置模板
func LoadTemplates(path string) (*TemplateTable, error) {
	if path == "" {
		return DefaultTemplates()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取模板配置文件失败: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates 解析 YAML 模板表
func ParseTemplates(data []byte) (*TemplateTable, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("解析模板配置失败: %w", err)
	}
	if file.Default.Title == "" || len(file.Default.Steps) == 0 {
		return nil, fmt.Errorf("模板配置缺少 default 模板")
	}

	fallback, err := compile("default", file.Default)
	if err != nil {
		return nil, err
	}
	table := &TemplateTable{
		byIntent: make(map[models.Intent]*compiledTemplate, len(file.Templates)),
		fallback: fallback,
	}
	for name, spec := range file.Templates {
		if len(spec.Steps) == 0 {
			return nil, fmt.Errorf("模板 %s 没有步骤", name)
		}
		ct, err := compile(name, spec)
		if err != nil {
			return nil, err
		}
		table.byIntent[models.Intent(name)] = ct
	}
	return table, nil
}

func compile(name string, spec TemplateSpec) (*compiledTemplate, error) {
	title, err := template.New(name + ".title").Parse(spec.Title)
	if err != nil {
		return nil, fmt.Errorf("解析模板 %s 标题失败: %w", name, err)
	}
	description, err := template.New(name + ".description").Parse(spec.Description)
	if err != nil {
		return nil, fmt.Errorf("解析模板 %s 描述失败: %w", name, err)
	}
	return &compiledTemplate{title: title, description: description, steps: spec.Steps}, nil
}

// Has 是否存在该意图的专用模板
func (t *TemplateTable) Has(intent models.Intent) bool {
	_, ok := t.byIntent[intent]
	return ok
}

// Render 按意图渲染标题、描述与步骤，未知意图使用 default 模板
func (t *TemplateTable) Render(intent models.Intent, entities models.Entities) (*Rendered, error) {
	ct, ok := t.byIntent[intent]
	if !ok {
		ct = t.fallback
	}
	data := renderData{Intent: string(intent), entities: entities}

	title, err := execute(ct.title, data)
	if err != nil {
		return nil, err
	}
	description, err := execute(ct.description, data)
	if err != nil {
		return nil, err
	}

	steps := make([]models.Step, len(ct.steps))
	for i, name := range ct.steps {
		steps[i] = models.Step{Name: name, Status: models.StepPending}
	}
	return &Rendered{Title: title, Description: description, Steps: steps}, nil
}

// renderData 模板上下文
type renderData struct {
	Intent   string
	entities models.Entities
}

// Slot 返回实体值，缺失或为空时返回 fallback
func (d renderData) Slot(name, fallback string) string {
	if v, ok := d.entities.Get(name); ok {
		return v
	}
	return fallback
}

func execute(tmpl *template.Template, data renderData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("渲染模板失败: %w", err)
	}
	return buf.String(), nil
}
