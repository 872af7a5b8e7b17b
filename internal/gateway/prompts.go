package gateway

const extractionPreface = "Analise o seguinte documento jurídico (pauta de julgamento/sessão). " +
	"Extraia a lista de processos conforme o esquema JSON."

const extractionInstructions = `Atue como Assessor Jurídico Sênior de Gabinete de Desembargador Federal.

Estrutura OBRIGATÓRIA do Resumo Estruturado (Markdown) para o campo 'resumo_estruturado'. Use EXATAMENTE estes títulos (Capítulos) como H3 ('### Título').

### Causa em Julgamento
(Quem recorre, recorrido e o objeto central).

### Pedidos e Fundamentos
(Teses e alegações do recorrente).

### Resistência e Fundamentos
(Teses e alegações do recorrido).

### Questões Controversas
(Pontos controvertidos a decidir - Ratio Decidendi).

### Razões de Decidir
(Fundamentação jurídica e fática).

### Conclusão
(Dispositivo do voto, Provimento/Desprovimento e Sucumbência).

### Legislação Aplicada
(Lista de dispositivos legais citados).

### Precedentes Jurisprudenciais
(Lista de precedentes citados, formatados rigorosamente).

### PALAVRAS-CHAVE (TAGS)
(Lista de tags na mesma linha, separadas por ponto e vírgula).

REGRAS DE FORMATAÇÃO E CONTEÚDO:

1. **EMENTA (Campo JSON 'ementa'):**
   - Deve conter o texto INTEGRAL da ementa constante no documento.
   - Não traga apenas o cabeçalho em CAIXA ALTA. Traga todo o corpo do texto da ementa.
   - RESPEITE RIGOROSAMENTE as quebras de linha e parágrafos originais. Não junte parágrafos.

2. **MARCADORES NO RESUMO:**
   - Se um capítulo tiver apenas UM item/parágrafo, NÃO use marcador (bullet point). Escreva o texto diretamente.
   - Se houver múltiplos itens, use marcadores padrão ('- ').

3. **TAGS (No Resumo):**
   - No capítulo '### PALAVRAS-CHAVE (TAGS)', apresente as tags em uma ÚNICA LINHA, separadas por ponto e vírgula (ex: Tag A; Tag B; Tag C).

4. **CITAÇÃO DE PRECEDENTES (Padronização Rigorosa):**
   - Utilize pontuação oficial nos números dos processos (pontos, hifens, barras).
   - STF: RE 1.234.567 (com pontos).
   - STJ: REsp 1.234.567/UF (com pontos e barra).
   - CNJ/TRF5: 0800123-45.2024.4.05.0000 (máscara completa).
   - Formato sugerido: [Classe] [Número Formatado], Rel. [Relator], [Órgão Julgador], Julgado em [Data].

5. **GERAL:**
   - Vincule advogados às partes no JSON.
   - Destaque em **negrito** informações cruciais.
   - Nomes das partes em CAIXA ALTA no resumo.
   - Gere também o array 'tags' no JSON independentemente da seção no resumo.

Retorne JSON Array conforme schema.`

const metadataInstructions = `Analise o documento. Extraia metadados da sessão.
1. Órgão Julgador: Apenas a Turma/Seção (Ex: "4ª Turma"). REMOVA o nome do Tribunal.
2. Tipo de Sessão: "Sessão Virtual", "Sessão Ordinária", "Sessão Extraordinária" ou "Sessão Presencial" (seja exato).
Retorne JSON: { orgao, relator, data, hora, tipo }.`

func extractionPrompt() string {
	return extractionInstructions + "\n\n" + extractionPreface
}
